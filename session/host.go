package session

// --- script.Host ---

func (s *Session) DishText() string {
	return s.store.Text()
}

func (s *Session) DishKind() string {
	d, ok := s.store.Current()
	if !ok {
		return ""
	}
	return d.Kind.String()
}

func (s *Session) Notify(msg string) {
	s.ui.Notify(msg, noticeDuration)
}
