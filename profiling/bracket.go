package profiling

// Run brackets fn in p: Start, fn, Stop. Stop runs on every exit path of fn,
// including a panic, which keeps propagating afterwards. With a nil p, Run just
// calls fn.
func Run(p *Profile, fn func()) {
	if p == nil {
		fn()
		return
	}
	p.Start()
	defer p.Stop()
	fn()
}

// Guard is an open bracket returned by Begin.
type Guard struct {
	p *Profile
}

// Begin starts p and returns a Guard whose Release stops it:
//
//	defer decode.Begin().Release()
func (p *Profile) Begin() Guard {
	p.Start()
	return Guard{p: p}
}

// Release closes the bracket. Releasing twice is harmless; the second call
// finds the record idle.
func (g Guard) Release() {
	g.p.Stop()
}
