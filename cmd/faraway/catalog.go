package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/faraway/internal/card"
)

type CatalogCmd struct {
	Sanctuaries bool `help:"List sanctuaries instead of regular cards"`
}

func (c *CatalogCmd) Run(_ *Globals) error {
	if c.Sanctuaries {
		fmt.Println(renderCatalog(card.Sanctuaries()))
		return nil
	}
	fmt.Println(renderCatalog(card.Catalog()))
	return nil
}

var catalogHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

// renderCatalog lays out card definitions as a table
func renderCatalog(defs []card.Card) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))).
		Headers("Card", "Color", "Night", "Clue", "Gives", "Needs", "Scores").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return catalogHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, c := range defs {
		t.Row(
			c.String(),
			c.Color.String(),
			strconv.FormatBool(c.Night),
			strconv.FormatBool(c.Sanctuary),
			c.Resources.String(),
			c.Conditions.String(),
			c.Scoring.String(),
		)
	}
	return t.String()
}
