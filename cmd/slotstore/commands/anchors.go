package commands

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/slotstore"
	"github.com/hupe1980/slotstore/codec"
	"github.com/hupe1980/slotstore/internal/printer"
)

var anchorsCodec string

var anchorsCmd = &cobra.Command{
	Use:   "anchors",
	Short: "Print the precomputed anchor table",
	Long: `Print the immutable anchor records (positions 3, 6 and 9) as JSON.

The table is a pure function of the position, so every store carries
exactly these records.`,
	RunE: runAnchors,
}

func init() {
	anchorsCmd.Flags().StringVar(&anchorsCodec, "codec", "indent", "Output encoding (indent, json, go-json)")
	rootCmd.AddCommand(anchorsCmd)
}

func runAnchors(cmd *cobra.Command, args []string) error {
	anchors := slotstore.New("anchors").Anchors()

	b, err := encode(anchorsCodec, anchors)
	if err != nil {
		return err
	}
	printer.Raw(b)
	return nil
}

// encode renders v with the named codec.
func encode(name string, v any) ([]byte, error) {
	c, ok := codec.ByName(name)
	if !ok {
		suggestions := make([]string, 0, len(codec.Names()))
		for _, n := range codec.Names() {
			suggestions = append(suggestions, "Use --codec "+n)
		}
		return nil, printer.Error(
			"Unknown codec",
			"The codec \""+name+"\" is not supported.",
			suggestions,
		)
	}
	return c.Marshal(v)
}
