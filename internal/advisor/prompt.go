package advisor

import (
	"fmt"
	"strings"

	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/i18n"
)

const systemPrompt = "You are a senior packaging engineer. Review nested packaging plans " +
	"(product, inner pack, master carton) and answer with a single JSON object only."

// Input is everything the advisor sees about one plan.
type Input struct {
	Product  model.Dimensions
	Result   model.CalculationResult
	Language string
	// Unit labels the dimensions, e.g. "mm".
	Unit string
}

// BuildPrompt renders the user message for a plan.
func BuildPrompt(in Input) string {
	unit := in.Unit
	if unit == "" {
		unit = "mm"
	}
	r := in.Result
	perInner := r.StackCount
	if perInner == 0 {
		perInner = r.TotalItems
	}

	var b strings.Builder
	b.WriteString("Analyze this packaging plan.\n\n")
	fmt.Fprintf(&b, "- Product: %s %s\n", dims(in.Product), unit)
	fmt.Fprintf(&b, "- Products per inner box: %d\n", perInner)
	fmt.Fprintf(&b, "- Inner box: %s %s\n", dims(r.InnerBoxDims), unit)
	fmt.Fprintf(&b, "- Master payload: %s %s\n", dims(r.MasterPayloadDims), unit)
	fmt.Fprintf(&b, "- Products per master carton: %d\n", r.TotalItems)
	if r.IsCustom {
		b.WriteString("- Carton: no stock carton fits, a custom carton is proposed\n")
	} else {
		fmt.Fprintf(&b, "- Carton: stock carton %s\n", r.Box.ID)
	}
	fmt.Fprintf(&b, "- Carton size: %s %s\n", dims(r.Box.Dimensions), unit)
	if r.Rotated {
		b.WriteString("- The payload is rotated 90 degrees in the carton footprint\n")
	}
	fmt.Fprintf(&b, "- Clearance: L+%.1f, W+%.1f, H+%.1f %s\n", r.GapL, r.GapW, r.GapH, unit)
	fmt.Fprintf(&b, "- Empty carton volume: %.1f cubic %s\n\n", r.WasteVolume, unit)

	fmt.Fprintf(&b, "Reply in %s using exactly this JSON shape:\n", i18n.GetTranslator().Translate(i18n.PromptKeyLanguage, in.Language))
	b.WriteString(`{
  "recommendation": "short packaging recommendation",
  "materialSuggestion": "corrugated board grade and flute suggestion",
  "efficiencyScore": integer 0 to 100 rating space utilisation,
  "reasoning": ["reason 1", "reason 2", "reason 3"]
}`)
	return b.String()
}

func dims(d model.Dimensions) string {
	return fmt.Sprintf("%.1f x %.1f x %.1f", d.Length, d.Width, d.Height)
}
