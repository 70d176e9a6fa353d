package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkj0421/CIM/pkg/errors"
)

// Prompt texts shown by convert --interactive.
const (
	promptIDColumn   = "Your columns are %s. \nWhich column do you want to select to ID?:"
	promptAuto       = "Do you want to set properties Automatically? [Y/N]:"
	promptProperties = "Which columns do you want to use as properties?:"
	promptLabel      = "Your columns are %s. \n" +
		"Which column do you want to select as \"ID\"? [import column name]:\n" +
		"Or do you want to save only structure img? [import \"only structure\"]:"
	promptBatch = "The file have %d structures.\nHow many structures do you want to include in one png file?:"
)

// prompter asks one question per line of input.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints question and returns the trimmed answer.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.Wrap(err, errors.ErrCodeInvalidExportOptions, "no answer to prompt")
	}
	return strings.TrimSpace(line), nil
}

// askYes reports whether the answer is Y, case-insensitively.
func (p *prompter) askYes(question string) (bool, error) {
	ans, err := p.ask(question)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(ans, "y"), nil
}

// askList splits the answer on ", ".
func (p *prompter) askList(question string) ([]string, error) {
	ans, err := p.ask(question)
	if err != nil {
		return nil, err
	}
	if ans == "" {
		return nil, nil
	}
	return strings.Split(ans, ", "), nil
}

func (p *prompter) askInt(question string) (int, error) {
	ans, err := p.ask(question)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(ans)
	if err != nil || n <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidExportOptions, "expected a positive number, got %q", ans)
	}
	return n, nil
}

//Personal.AI order the ending
