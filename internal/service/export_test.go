package service

import "time"

// SetClock pins the time used for rendering dates.
func (s *ContractService) SetClock(now func() time.Time) { s.now = now }

// SetClock pins the time used to issue and check tokens.
func (s *SignatureSigner) SetClock(now func() time.Time) { s.now = now }
