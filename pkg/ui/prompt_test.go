package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

func TestLinePrompter_Ask(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single line", "SPEC-1\n", []string{"SPEC-1"}},
		{"trims whitespace", "  Ann  \r\n", []string{"Ann"}},
		{"sequential answers", "Ann\nann@example.com\n", []string{"Ann", "ann@example.com"}},
		{"eof without newline", "last", []string{"last"}},
		{"eof without data", "", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewLinePrompter(strings.NewReader(tt.input), &out)

			for i, want := range tt.want {
				got, err := p.Ask("Q: ")
				if err != nil {
					t.Fatalf("Ask() #%d error = %v", i, err)
				}
				if got != want {
					t.Errorf("Ask() #%d = %q, want %q", i, got, want)
				}
			}

			if got := strings.Count(out.String(), "Q: "); got != len(tt.want) {
				t.Errorf("question written %d times, want %d", got, len(tt.want))
			}
		})
	}
}

func TestLinePrompter_ReadError(t *testing.T) {
	p := NewLinePrompter(failingReader{}, &bytes.Buffer{})
	if _, err := p.Ask("Q: "); err == nil {
		t.Error("Ask() should surface read errors")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(NewLinePrompter(strings.NewReader(tt.input), &out), "Proceed?")
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if out.String() != "Proceed? [y/N]: " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestMenu(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("2\n"), &out)

	answer, err := Menu(NewPlainConsole(&out), p, "📋 Please select a section:", []string{"### 📦 Support", "### 🔐 Security"}, "🔢 Enter section number: ")
	if err != nil {
		t.Fatalf("Menu() error = %v", err)
	}
	if answer != "2" {
		t.Errorf("Menu() = %q, want %q", answer, "2")
	}

	want := "\n📋 Please select a section:\n" +
		"   1. ### 📦 Support\n" +
		"   2. ### 🔐 Security\n" +
		"\n🔢 Enter section number: "
	if out.String() != want {
		t.Errorf("Menu output = %q, want %q", out.String(), want)
	}
}

type stallingPrompter struct {
	asked   chan struct{}
	release chan struct{}
	calls   int
}

func (p *stallingPrompter) Ask(string) (string, error) {
	p.calls++
	close(p.asked)
	<-p.release
	return "too late", nil
}

func TestWithContext_ReturnsAnswer(t *testing.T) {
	var out bytes.Buffer
	p := WithContext(context.Background(), NewLinePrompter(strings.NewReader("SPEC-7\n"), &out))

	got, err := p.Ask("Task: ")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got != "SPEC-7" {
		t.Errorf("Ask() = %q, want %q", got, "SPEC-7")
	}
}

func TestWithContext_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &stallingPrompter{asked: make(chan struct{}), release: make(chan struct{})}
	defer close(p.release)

	errc := make(chan error, 1)
	go func() {
		_, err := WithContext(ctx, p).Ask("Task: ")
		errc <- err
	}()

	<-p.asked
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Ask() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Ask() did not return after cancellation")
	}
}

func TestWithContext_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &stallingPrompter{asked: make(chan struct{}), release: make(chan struct{})}
	if _, err := WithContext(ctx, p).Ask("Task: "); !errors.Is(err, context.Canceled) {
		t.Errorf("Ask() error = %v, want context.Canceled", err)
	}
	if p.calls != 0 {
		t.Errorf("underlying prompter called %d times, want 0", p.calls)
	}
}
