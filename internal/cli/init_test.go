package cli

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"
	"testing"
)

func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestGenerateToken(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token := generateToken()
		if !pattern.MatchString(token) {
			t.Fatalf("token %q not 8 hex chars", token)
		}
		seen[token] = true
	}
	if len(seen) < 2 {
		t.Error("tokens not random")
	}
}

func TestPrintStartupInstructions(t *testing.T) {
	output := captureOutput(func() {
		printStartupInstructions(9090, "deadbeef")
	})

	expectations := []string{
		"http://localhost:9090/stats?token=deadbeef",
		`<script src="https://YOUR-URL/lp.js" defer></script>`,
		"window.leadline.convert()",
	}
	for _, expected := range expectations {
		if !strings.Contains(output, expected) {
			t.Errorf("instructions missing %q\n\nGot:\n%s", expected, output)
		}
	}
}

func TestPrintHTMLSnippet(t *testing.T) {
	output := captureOutput(printHTMLSnippet)

	expectations := []string{
		`<script src="https://YOUR-URL/lp.js" defer></script>`,
		"window.leadline.variant",
		"window.leadline.convert()",
		"https://YOUR-URL/submit",
	}
	for _, expected := range expectations {
		if !strings.Contains(output, expected) {
			t.Errorf("HTML snippet missing %q\n\nGot:\n%s", expected, output)
		}
	}
}

func TestPrintReactSnippet(t *testing.T) {
	output := captureOutput(printReactSnippet)

	expectations := []string{
		`strategy="afterInteractive"`,
		"window.leadline?.variant",
		"keepalive: true",
	}
	for _, expected := range expectations {
		if !strings.Contains(output, expected) {
			t.Errorf("React snippet missing %q\n\nGot:\n%s", expected, output)
		}
	}
}
