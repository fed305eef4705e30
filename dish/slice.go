package dish

// DisplaySlice decodes buf[from:to] of the current buffer and shows it as a
// text dish, keeping the buffer for the next slice. Offsets are clamped to
// the buffer and from > to gives an empty view.
func (s *Store) DisplaySlice(from, to int) error {
	buf, ok := s.Buffer()
	if !ok {
		return ErrNoBuffer
	}

	from = clamp(from, 0, len(buf))
	to = clamp(to, 0, len(buf))
	if from > to {
		from = to
	}

	start := s.clock()
	text := s.codec.Decode(buf[from:to])
	elapsed := s.clock().Sub(start)

	return s.Set(TextPayload(text), elapsed, Preserve())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
