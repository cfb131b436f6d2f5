package domain

import "fmt"

// Field describes one report field to collect: its id, the prompt shown to
// the user, and the display label used in confirmations and rewrite prompts.
type Field struct {
	ID     FieldID
	Prompt string
	Label  string
}

// Schedule is the ordered, immutable list of report fields.
// Order defines the collection sequence and never changes mid-session.
type Schedule struct {
	fields []Field
	byID   map[FieldID]int
}

// NewSchedule validates the descriptors and builds a schedule.
// IDs must be unique and non-empty; prompts and labels must be non-empty.
func NewSchedule(fields []Field) (*Schedule, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schedule must have at least one field")
	}

	byID := make(map[FieldID]int, len(fields))
	for i, f := range fields {
		if f.ID == "" || f.Prompt == "" || f.Label == "" {
			return nil, fmt.Errorf("schedule field %d: id, prompt and label are required", i)
		}
		if f.ID == InvestigatorField {
			return nil, fmt.Errorf("field id %q is reserved for the selection step", f.ID)
		}
		if _, dup := byID[f.ID]; dup {
			return nil, fmt.Errorf("duplicate field id %q", f.ID)
		}
		byID[f.ID] = i
	}

	return &Schedule{fields: fields, byID: byID}, nil
}

func (s *Schedule) Len() int {
	return len(s.fields)
}

// Field returns the descriptor at position i.
// Out-of-range i is a programming error at the call site.
func (s *Schedule) Field(i int) Field {
	return s.fields[i]
}

func (s *Schedule) Prompt(i int) string {
	return s.fields[i].Prompt
}

func (s *Schedule) Label(i int) string {
	return s.fields[i].Label
}

// ByID returns the descriptor for a field id, if present.
func (s *Schedule) ByID(id FieldID) (Field, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// DefaultSchedule is the forensic report schedule the bot ships with.
func DefaultSchedule() *Schedule {
	s, err := NewSchedule([]Field{
		{ID: "Date", Prompt: "🎙️ أرسل تاريخ الواقعة.", Label: "التاريخ"},
		{ID: "Briefing", Prompt: "🎙️ أرسل موجز الواقعة.", Label: "موجز الواقعة"},
		{ID: "LocationObservations", Prompt: "🎙️ أرسل معاينة الموقع.", Label: "معاينة الموقع"},
		{ID: "Examination", Prompt: "🎙️ أرسل نتيجة الفحص الفني.", Label: "نتيجة الفحص الفني"},
		{ID: "Outcomes", Prompt: "🎙️ أرسل النتيجة.", Label: "النتيجة"},
		{ID: "TechnicalOpinion", Prompt: "🎙️ أرسل الرأي الفني.", Label: "الرأي الفني"},
	})
	if err != nil {
		panic(err) // static data, cannot fail
	}
	return s
}

// DefaultInvestigators is the selection roster the bot ships with.
func DefaultInvestigators() []string {
	return []string{
		"المقدم محمد علي القاسم",
		"النقيب عبدالله راشد ال علي",
		"النقيب سليمان محمد الزرعوني",
		"الملازم أول أحمد خالد الشامسي",
		"العريف راشد محمد بن حسين",
		"المدني محمد ماهر العلي",
		"المدني امنه خالد المازمي",
		"المدني حمده ماجد ال علي",
	}
}
