package git

import "strings"

// MockCommandRunner records invocations and delegates to optional hooks.
type MockCommandRunner struct {
	RunFunc    func(dir string, name string, args ...string) error
	OutputFunc func(dir string, name string, args ...string) ([]byte, error)

	Calls []string
}

func (m *MockCommandRunner) Run(dir string, name string, args ...string) error {
	m.Calls = append(m.Calls, name+" "+strings.Join(args, " "))
	if m.RunFunc != nil {
		return m.RunFunc(dir, name, args...)
	}
	return nil
}

func (m *MockCommandRunner) Output(dir string, name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, name+" "+strings.Join(args, " "))
	if m.OutputFunc != nil {
		return m.OutputFunc(dir, name, args...)
	}
	return []byte{}, nil
}
