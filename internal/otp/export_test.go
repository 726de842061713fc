package otp

import "time"

// SetClock replaces the service clock for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

var GenerateCode = generateCode
