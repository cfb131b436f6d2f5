package rewrite

import (
	"fmt"

	"github.com/frn-eng/intake-agent/internal/domain"
)

// Field ids with a dedicated prompt shape.
const (
	fieldDate             domain.FieldID = "Date"
	fieldTechnicalOpinion domain.FieldID = "TechnicalOpinion"
)

// BuildPrompt returns the rewrite instruction for one field.
//
// The date field is not rewritten freely: the model must emit exactly the
// "day/month-name/year" shape (e.g. 25/مايو/2025). The technical opinion asks
// for an analytic register; everything else is a generic formal rewrite.
func BuildPrompt(fieldID domain.FieldID, label, raw string) string {
	switch fieldID {
	case fieldDate:
		return fmt.Sprintf("يرجى صياغة تاريخ الواقعة بالتنسيق التالي فقط: 25/مايو/2025. النص:\n\n%s", raw)
	case fieldTechnicalOpinion:
		return fmt.Sprintf("يرجى إعادة صياغة (%s) التالية بطريقة مهنية وتحليلية، وباستخدام لغة رسمية وعربية فصحى:\n\n%s", label, raw)
	default:
		return fmt.Sprintf("يرجى إعادة صياغة التالي (%s) باستخدام أسلوب مهني وعربي فصيح، مع تجنب المشاعر:\n\n%s", label, raw)
	}
}
