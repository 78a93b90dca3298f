package billing

// LockCount cantidad de sesiones con mutex registrado.
func (uc *WizardUseCase) LockCount() int {
	n := 0
	uc.locks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
