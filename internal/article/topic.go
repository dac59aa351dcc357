package article

// TopicCategory is the fixed enumeration used to colour-code and group articles.
type TopicCategory string

// Topic categories.
const (
	TopicEnvironment TopicCategory = "environment"
	TopicEconomics   TopicCategory = "economics"
	TopicSociology   TopicCategory = "sociology"
	TopicPsychology  TopicCategory = "psychology"
	TopicHistory     TopicCategory = "history"
	TopicTechnology  TopicCategory = "technology"
)

// Topics lists every topic category in legend order.
var Topics = []TopicCategory{
	TopicEnvironment,
	TopicEconomics,
	TopicSociology,
	TopicPsychology,
	TopicHistory,
	TopicTechnology,
}

// TopicMetadata carries the display attributes for a topic category.
type TopicMetadata struct {
	Label       string `json:"label"`
	ShortLabel  string `json:"short_label"`
	MainColor   string `json:"main_color"`
	GradientEnd string `json:"gradient_end"`
	GlowColor   string `json:"glow_color"`
}

var topicMetadata = map[TopicCategory]TopicMetadata{
	TopicEnvironment: {
		Label:       "Geography",
		ShortLabel:  "Geography",
		MainColor:   "#14b8a6",
		GradientEnd: "#0d9488",
		GlowColor:   "rgba(20, 184, 166, 0.4)",
	},
	TopicEconomics: {
		Label:       "Economics",
		ShortLabel:  "Economics",
		MainColor:   "#06b6d4",
		GradientEnd: "#0891b2",
		GlowColor:   "rgba(6, 182, 212, 0.4)",
	},
	TopicSociology: {
		Label:       "Society",
		ShortLabel:  "Society",
		MainColor:   "#ec4899",
		GradientEnd: "#db2777",
		GlowColor:   "rgba(236, 72, 153, 0.4)",
	},
	TopicPsychology: {
		Label:       "Psychology",
		ShortLabel:  "Psychology",
		MainColor:   "#a855f7",
		GradientEnd: "#9333ea",
		GlowColor:   "rgba(168, 85, 247, 0.4)",
	},
	TopicHistory: {
		Label:       "History",
		ShortLabel:  "History",
		MainColor:   "#f59e0b",
		GradientEnd: "#d97706",
		GlowColor:   "rgba(245, 158, 11, 0.4)",
	},
	TopicTechnology: {
		Label:       "Tech",
		ShortLabel:  "Tech",
		MainColor:   "#64748b",
		GradientEnd: "#475569",
		GlowColor:   "rgba(100, 116, 139, 0.4)",
	},
}

// IsValid reports whether t is one of the known topic categories.
func (t TopicCategory) IsValid() bool {
	_, ok := topicMetadata[t]
	return ok
}

// Metadata returns the display attributes for t, falling back to technology.
func (t TopicCategory) Metadata() TopicMetadata {
	if meta, ok := topicMetadata[t]; ok {
		return meta
	}
	return topicMetadata[TopicTechnology]
}

// Color returns the main colour for t.
func (t TopicCategory) Color() string {
	return t.Metadata().MainColor
}

// Label returns the display label for t.
func (t TopicCategory) Label() string {
	return t.Metadata().Label
}

// AllCategories is the category filter label meaning "no filter".
const AllCategories = "All"

// CategoryLabels lists the category filter labels in display order.
var CategoryLabels = []string{AllCategories, "Geography", "History", "Society", "Economics", "Psychology", "Tech"}
