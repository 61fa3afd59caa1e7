package entities

// AnswerType describes how many options a question expects.
type AnswerType string

const (
	AnswerSingle   AnswerType = "single"
	AnswerMultiple AnswerType = "multiple"
)

// Exam tracks partitioning the question pool.
const (
	ExamMidterm = "midterm"
	ExamFinal   = "final"
)

// ExamTypes lists the tracks a user can choose from when starting a quiz.
var ExamTypes = []string{ExamMidterm, ExamFinal}

// ValidExamType reports whether s names a known exam track.
func ValidExamType(s string) bool {
	for _, e := range ExamTypes {
		if e == s {
			return true
		}
	}
	return false
}

// Question is a multiple-choice question. CorrectAnswers is always a
// subset of Options; Options keeps its display order and carries plain
// texts, display letters are derived from position.
type Question struct {
	ID             int64
	Text           string
	ImagePath      string
	AnswerType     AnswerType
	CorrectAnswers []string
	Options        []string
	Explanation    string
	Topic          string
	Difficulty     int
	ExamType       string
}

// OptionLetter returns the display label for an option position (0 -> "A").
func OptionLetter(i int) string {
	return string(rune('A' + i))
}

// LetterIndex converts a display label back to an option position,
// or -1 if the label is out of range for n options.
func LetterIndex(letter string, n int) int {
	if len(letter) != 1 {
		return -1
	}
	i := int(letter[0] - 'A')
	if i < 0 || i >= n {
		return -1
	}
	return i
}

// OptionByLetter resolves a display label to the option text.
func (q *Question) OptionByLetter(letter string) (string, bool) {
	i := LetterIndex(letter, len(q.Options))
	if i < 0 {
		return "", false
	}
	return q.Options[i], true
}
