package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"superstore/internal/domain"
	"superstore/internal/receipt"
)

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(in), out: out}
}

// ask prints label and returns the trimmed next line; false at end of input.
func (p *prompter) ask(label string) (string, bool) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(p.scanner.Text()), true
}

func (p *prompter) fail(format string, args ...any) {
	fmt.Fprintf(p.out, "!!! "+format+" !!!\n", args...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func writeCatalog(out io.Writer, products []domain.Product, f receipt.Formatter) {
	fmt.Fprintf(out, "| %-3s | %-25s | %-10s | %-5s |\n", "No.", "Item Name", "Price", "Stock")
	fmt.Fprintln(out, "------------------------------------------------------")
	for _, p := range products {
		fmt.Fprintf(out, "| %-3d | %-25s | %-10s | %-5d |\n", p.ID, truncate(p.Name, 25), f.Amount(p.Price), p.StockQuantity)
	}
	fmt.Fprintln(out, "------------------------------------------------------")
}
