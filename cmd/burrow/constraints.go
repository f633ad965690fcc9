package main

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"

	"github.com/cuemby/burrow/pkg/constraint"
)

var constraintsCmd = &cobra.Command{
	Use:   "constraints",
	Short: "Query constraints from the configuration",
	Long: `Query constraints of one kind from the configuration document,
optionally narrowed to a single ticket or resource. Matching nothing is a
normal outcome and prints an empty result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kindStr, _ := cmd.Flags().GetString("kind")
		id, _ := cmd.Flags().GetString("id")

		kind, err := constraint.ParseKind(kindStr)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		elems, err := constraint.NewService(store).Find(kind, id)
		if err != nil {
			return err
		}

		if len(elems) == 0 {
			fmt.Println("No matching constraints.")
			return nil
		}
		for _, el := range elems {
			fmt.Print(renderElement(el))
		}
		return nil
	},
}

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Inspect ticket constraints",
}

var ticketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tickets referenced by any constraint",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		names, err := constraint.NewService(store).TicketNames()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No tickets referenced.")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var ticketShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show the constraints attached to one ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		elems, err := constraint.NewService(store).Tickets(args[0])
		if err != nil {
			return err
		}

		if len(elems) == 0 {
			fmt.Printf("No constraints reference ticket %q.\n", args[0])
			return nil
		}
		for _, el := range elems {
			fmt.Print(renderElement(el))
		}
		return nil
	},
}

// renderElement serializes one element as indented XML.
func renderElement(el *etree.Element) string {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	doc.Indent(2)

	s, err := doc.WriteToString()
	if err != nil {
		return fmt.Sprintf("<!-- unrenderable element %s -->\n", el.Tag)
	}
	return strings.TrimLeft(s, "\n")
}

func init() {
	constraintsCmd.Flags().String("kind", "ticket", "Constraint kind: ticket, location, colocation or order")
	constraintsCmd.Flags().String("id", "", "Restrict to one ticket or resource identity")

	ticketCmd.AddCommand(ticketListCmd)
	ticketCmd.AddCommand(ticketShowCmd)
}
