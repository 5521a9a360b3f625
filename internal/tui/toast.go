package tui

import "sync"

// toastSink collects notifications from the views so the next frame can
// render them in the status line. It keeps only the most recent message.
type toastSink struct {
	mu    sync.Mutex
	msg   string
	isErr bool
	set   bool
}

func (s *toastSink) Success(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg, s.isErr, s.set = msg, false, true
}

func (s *toastSink) Error(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg, s.isErr, s.set = msg, true, true
}

// Take returns and clears the pending toast, if any.
func (s *toastSink) Take() (msg string, isErr, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", false, false
	}
	msg, isErr = s.msg, s.isErr
	s.msg, s.set = "", false
	return msg, isErr, true
}
