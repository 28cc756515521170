package crawler

import (
	"bufio"
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"
)

// Element is one matched node from single-page selector mode.
type Element struct {
	Text string
	Href string
}

const collectScript = `(sel) => Array.from(document.querySelectorAll(sel)).map(el => {
	const link = el.closest('a');
	return {
		text: (el.textContent || '').trim(),
		href: link && link.href ? link.href : '',
	};
})`

// CollectElements evaluates the selector in-page and returns each
// matched element's visible text and its own or nearest-ancestor link
// target.
func CollectElements(page playwright.Page, selector string) ([]Element, error) {
	result, err := page.Evaluate(collectScript, selector)
	if err != nil {
		return nil, fmt.Errorf("evaluate selector: %w", err)
	}

	items, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected evaluation result %T", result)
	}

	elements := make([]Element, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		elements = append(elements, Element{
			Text: stringField(m, "text"),
			Href: stringField(m, "href"),
		})
	}
	return elements, nil
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// ElementHeader and ElementRows adapt collected elements to the CSV
// sink.
func ElementHeader() []string {
	return []string{"text", "href"}
}

func ElementRows(elements []Element) [][]string {
	rows := make([][]string, len(elements))
	for i, el := range elements {
		rows[i] = []string{el.Text, el.Href}
	}
	return rows
}

// StdinConfirm returns a ConfirmFunc that prompts on w and blocks until
// one line is read from r (the manual-login pause).
func StdinConfirm(r io.Reader, w io.Writer) ConfirmFunc {
	return func() error {
		fmt.Fprintln(w, "Log in in the browser window, then press Enter to continue...")
		reader := bufio.NewReader(r)
		if _, err := reader.ReadString('\n'); err != nil && err != io.EOF {
			return fmt.Errorf("read confirmation: %w", err)
		}
		return nil
	}
}
