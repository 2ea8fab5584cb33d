// Command eof is a thin driver over github.com/go-eof/eof/core/vm: it
// decodes, validates, converts, and prints EVM Object Format v1 contract
// containers from a file or stdin.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/go-eof/eof/core/vm"
)

var debugFlag = &cli.BoolFlag{
	Name:  "debug",
	Usage: "dump the decoded container with go-spew before printing output",
}

var fmtFlag = &cli.StringFlag{
	Name:     "fmt",
	Usage:    "target format: json or hex",
	Required: true,
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Crit("eof failed", "err", err)
	}
}

// newApp builds the cli.App; split out from main so tests can run it
// against an in-memory Writer instead of os.Stdout.
func newApp() *cli.App {
	return &cli.App{
		Name:                 "eof",
		Usage:                "inspect and validate EOF v1 contract containers",
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "validate a container's JSON representation",
				ArgsUsage: "[input]",
				Action:    validateCmd,
			},
			{
				Name:      "convert",
				Usage:     "decode a hex-encoded container and re-emit it in another format",
				ArgsUsage: "[input]",
				Flags:     []cli.Flag{fmtFlag, debugFlag},
				Action:    convertCmd,
			},
			{
				Name:      "print",
				Usage:     "render a container as a human-readable section table",
				ArgsUsage: "[input]",
				Flags: []cli.Flag{&cli.StringFlag{
					Name:  "fmt",
					Usage: "input format: hex or json",
					Value: "hex",
				}},
				Action: printCmd,
			},
		},
	}
}

// readInput returns the raw bytes of the positional [input] file argument,
// or stdin if it was omitted.
func readInput(c *cli.Context) ([]byte, error) {
	if path := c.Args().First(); path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func validateCmd(c *cli.Context) error {
	raw, err := readInput(c)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var container vm.Container
	if err := json.Unmarshal(raw, &container); err != nil {
		return fmt.Errorf("parsing container JSON: %w", err)
	}
	if err := vm.Validate(&container); err != nil {
		return fmt.Errorf("invalid container: %w", err)
	}

	fmt.Fprintln(c.App.Writer, "valid")
	return nil
}

func convertCmd(c *cli.Context) error {
	raw, err := readInput(c)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	code, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("decoding hex input: %w", err)
	}

	container, err := vm.Decode(code)
	if err != nil {
		return fmt.Errorf("decoding container: %w", err)
	}
	if err := vm.Validate(container); err != nil {
		return fmt.Errorf("invalid container: %w", err)
	}

	if c.Bool("debug") {
		spew.Fdump(c.App.ErrWriter, container)
	}

	switch c.String("fmt") {
	case "json":
		out, err := json.Marshal(container)
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(c.App.Writer, string(out))
	case "hex":
		out, err := vm.Encode(container)
		if err != nil {
			return fmt.Errorf("encoding container: %w", err)
		}
		fmt.Fprintln(c.App.Writer, hex.EncodeToString(out))
	default:
		return fmt.Errorf("unsupported target format %q", c.String("fmt"))
	}
	return nil
}

func printCmd(c *cli.Context) error {
	raw, err := readInput(c)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var container *vm.Container
	switch c.String("fmt") {
	case "hex":
		code, err := hex.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil {
			return fmt.Errorf("decoding hex input: %w", err)
		}
		container, err = vm.Decode(code)
		if err != nil {
			return fmt.Errorf("decoding container: %w", err)
		}
	case "json":
		container = &vm.Container{}
		if err := json.Unmarshal(raw, container); err != nil {
			return fmt.Errorf("parsing container JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported input format %q", c.String("fmt"))
	}

	container.Print(c.App.Writer)
	return nil
}
