package usecase

import "time"

// SetNow fija el reloj en tests.
func (uc *SalesUseCase) SetNow(f func() time.Time)    { uc.now = f }
func (uc *PreorderUseCase) SetNow(f func() time.Time) { uc.now = f }
func (uc *PartnerUseCase) SetNow(f func() time.Time)  { uc.now = f }

// SetAfter reemplaza el temporizador de entregas simuladas.
func (uc *WhatsAppUseCase) SetAfter(f func(d time.Duration, fn func())) { uc.after = f }
