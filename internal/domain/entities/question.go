package entities

// NumQuestions is the fixed length of the questionnaire.
const NumQuestions = 5

// NumOptions is the number of choices every question offers.
const NumOptions = 4

// Question is a single multiple choice item of the questionnaire.
type Question struct {
	Prompt  string   `yaml:"prompt"`
	Options []string `yaml:"options"` // exactly NumOptions entries
}
