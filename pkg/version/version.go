package version

// Up bumps the manifest version at level and writes it back. It returns the
// previous and the new version.
func Up(m *Manifest, level Level) (previous, next string, err error) {
	previous, err = m.Read()
	if err != nil {
		return "", "", err
	}
	next, err = Bump(previous, level)
	if err != nil {
		return "", "", err
	}
	if err := m.Write(next); err != nil {
		return "", "", err
	}
	return previous, next, nil
}

// Reader reads the project version afresh on every call, detecting the
// manifest each time. Release steps switch branches between reads, so the
// manifest found earlier may no longer be current.
type Reader struct {
	Dir      string
	Override string
}

// Read returns the version from the manifest currently in Dir.
func (r Reader) Read() (string, error) {
	m, err := Detect(r.Dir, r.Override)
	if err != nil {
		return "", err
	}
	return m.Read()
}
