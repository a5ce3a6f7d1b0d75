// Package narration builds spoken-guide scripts for artworks and renders
// them to audio.
package narration

import (
	"fmt"
	"strings"
	"time"

	"github.com/lensa-guide/lensa/internal/models"
)

// BuildScript composes a narration script for an artwork:
// hook, context, key feature, fun fact, call to action.
func BuildScript(a models.Artwork) string {
	hook := fmt.Sprintf("You're looking at %s.", a.Title)

	var context strings.Builder
	artist := a.Artist
	if artist == "" {
		artist = "an unknown artist"
	}
	fmt.Fprintf(&context, "Created by %s ", artist)
	if a.Date != "" {
		fmt.Fprintf(&context, "in %s, ", a.Date)
	}
	context.WriteString(mediumPhrase(a.Medium))
	context.WriteString("is a masterpiece of ")
	context.WriteString(departmentPhrase(a.Department))

	parts := []string{hook, context.String(), keyFeature(a), funFact(a),
		"Take a closer look and see what details you can discover."}
	return strings.Join(parts, " ")
}

func mediumPhrase(medium string) string {
	m := strings.ToLower(medium)
	switch {
	case strings.Contains(m, "oil"):
		return "this oil painting "
	case strings.Contains(m, "marble"):
		return "this marble sculpture "
	case strings.Contains(m, "bronze"):
		return "this bronze work "
	case strings.Contains(m, "ceramic"):
		return "this ceramic piece "
	default:
		return "this artwork "
	}
}

func departmentPhrase(department string) string {
	switch {
	case strings.Contains(department, "European"):
		return "European art."
	case strings.Contains(department, "American"):
		return "American art."
	case strings.Contains(department, "Egyptian"):
		return "ancient Egyptian culture."
	case strings.Contains(department, "Greek"), strings.Contains(department, "Roman"):
		return "classical antiquity."
	case strings.Contains(department, "Asian"):
		return "Asian artistic tradition."
	case department == "":
		return "its collection."
	default:
		return fmt.Sprintf("the %s.", department)
	}
}

func keyFeature(a models.Artwork) string {
	medium := strings.ToLower(a.Medium)
	switch {
	case strings.Contains(medium, "painting"), strings.Contains(a.Department, "European Paintings"):
		return "Notice the masterful use of color and brushwork. The composition draws your eye across the canvas."
	case strings.Contains(medium, "sculpture"), strings.Contains(strings.ToLower(a.Title), "statue"):
		return "Observe the incredible detail in the carved features and the lifelike proportions."
	case strings.Contains(a.Department, "Egyptian"):
		return "The hieroglyphics and symbolic imagery tell stories from thousands of years ago."
	case strings.Contains(medium, "ceramic"), strings.Contains(medium, "pottery"):
		return "The intricate patterns and glazing techniques showcase exceptional craftsmanship."
	case strings.Contains(medium, "armor"), strings.Contains(a.Department, "Arms and Armor"):
		return "Notice the engineering and artistry combined in this protective equipment."
	default:
		return "Pay attention to the materials, technique, and symbolic elements used by the artist."
	}
}

func funFact(a models.Artwork) string {
	switch {
	case strings.Contains(a.Artist, "Van Gogh"):
		return "Van Gogh created hundreds of paintings in just the last two years of his life."
	case strings.Contains(a.Artist, "Vermeer"):
		return "Vermeer painted fewer than 40 works in his entire lifetime, making each one extremely precious."
	case strings.Contains(a.Artist, "Rembrandt"):
		return "Rembrandt often included himself in his paintings as a hidden observer."
	case strings.Contains(a.Department, "Egyptian"):
		return "This artifact has survived for thousands of years, outlasting entire civilizations."
	case strings.Contains(a.Department, "Arms and Armor"):
		return "Medieval armor like this could weigh up to 50 pounds, yet knights could move surprisingly well in it."
	case strings.Contains(a.Department, "Greek"), strings.Contains(a.Department, "Roman"):
		return "Many classical statues were originally painted in bright colors, not the white marble we see today."
	}

	if year, ok := leadingYear(a.Date); ok {
		age := time.Now().Year() - year
		if year < 1500 {
			return fmt.Sprintf("This artwork is over %d years old.", age)
		}
		if year < 1800 {
			return fmt.Sprintf("This was created %d years ago, before photography existed.", age)
		}
	}

	return "Artworks like this connect us to the creativity and vision of people from another time."
}

// leadingYear extracts the first four digits found in a free-form date
// string.
func leadingYear(date string) (int, bool) {
	var digits []rune
	for _, r := range date {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
			if len(digits) == 4 {
				break
			}
		}
	}
	if len(digits) < 4 {
		return 0, false
	}
	year := 0
	for _, d := range digits {
		year = year*10 + int(d-'0')
	}
	return year, true
}
