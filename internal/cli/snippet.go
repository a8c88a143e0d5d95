package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var snippetFramework string

var snippetCmd = &cobra.Command{
	Use:   "snippet",
	Short: "Show embed code for your landing page",
	Long: `Show the code to embed leadline tracking and lead capture in a
landing page.

Examples:
  leadline snippet
  leadline snippet --framework react`,
	RunE: runSnippet,
}

func init() {
	snippetCmd.Flags().StringVarP(&snippetFramework, "framework", "F", "html", "framework (html or react)")
	rootCmd.AddCommand(snippetCmd)
}

func runSnippet(cmd *cobra.Command, args []string) error {
	switch snippetFramework {
	case "html":
		printHTMLSnippet()
	case "react":
		printReactSnippet()
	default:
		return fmt.Errorf("invalid framework: must be 'html' or 'react'")
	}
	return nil
}

func printHTMLSnippet() {
	fmt.Println(`Add the script to your page:

  <script src="https://YOUR-URL/lp.js" defer></script>

The script assigns a sticky variant, tracks the impression, and exposes
window.leadline. Wire your lead form like this:

  <form id="lead-form">
    <input type="tel" name="phone" required>
    <button type="submit">Call Me</button>
  </form>
  <script>
  document.getElementById('lead-form').addEventListener('submit', async (e) => {
    e.preventDefault();
    const res = await fetch('https://YOUR-URL/submit', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({
        phone: e.target.phone.value,
        variant: window.leadline.variant,
        visitorId: window.leadline.visitorId,
        timestamp: new Date().toISOString(),
        userAgent: navigator.userAgent,
        referrer: document.referrer || 'direct',
        url: location.href,
      }),
    });
    const data = await res.json();
    if (data.success) window.leadline.convert();
  });
  </script>`)
}

func printReactSnippet() {
	fmt.Println(`Load the script once in your layout:

  <Script src="https://YOUR-URL/lp.js" strategy="afterInteractive" />

Then submit leads from your form component:

  const submitLead = async (phone) => {
    const res = await fetch('https://YOUR-URL/submit', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({
        phone,
        variant: window.leadline?.variant,
        visitorId: window.leadline?.visitorId,
        timestamp: new Date().toISOString(),
        userAgent: navigator.userAgent,
        referrer: document.referrer || 'direct',
        url: location.href,
      }),
      keepalive: true,
    });
    const data = await res.json();
    if (data.success) window.leadline?.convert();
    return data;
  };`)
}
