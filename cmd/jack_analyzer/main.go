package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"n2tc.dev/toolchain/internal/jack"

	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
The Jack Analyzer tokenizes and parses programs written in the Jack language and emits,
for each source file, the nand2tetris-standard XML parse tree (one file per .jack input,
suffixed '.comp.xml'). It performs no semantic analysis and produces no executable output;
it exists to let a parse tree be inspected or diffed independently of code generation.
`, "\n", " ")

var JackAnalyzer = cli.New(Description).
	WithArg(cli.NewArg("inputs", "The source (.jack) files or directories to analyze").
		AsOptional().WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	TUs := []string{}
	for _, input := range args {
		filepath.Walk(input, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || filepath.Ext(path) != ".jack" {
				return nil
			}
			TUs = append(TUs, path)
			return nil
		})
	}

	for _, tu := range TUs {
		content, err := os.ReadFile(tu)
		if err != nil {
			fmt.Printf("ERROR: Unable to open input file: %s\n", err)
			return -1
		}

		tokens, err := jack.Tokenize(content)
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'tokenizing' pass: %s\n", err)
			return -1
		}

		analyzer := jack.NewAnalyzer(tokens)
		xml, err := analyzer.Analyze()
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'analysis' pass: %s\n", err)
			return -1
		}

		extension := filepath.Ext(tu)
		outPath := fmt.Sprintf("%s.comp.xml", strings.TrimSuffix(tu, extension))
		output, err := os.Create(outPath)
		if err != nil {
			fmt.Printf("ERROR: Unable to open output file: %s\n", err)
			return -1
		}

		output.WriteString(xml)
		output.Close()
	}

	return 0
}

func main() { os.Exit(JackAnalyzer.Run(os.Args, os.Stdout)) }
