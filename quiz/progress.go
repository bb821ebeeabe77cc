package quiz

const (
	keyAttempted      = "attempted_questions"
	keyCorrect        = "correct_answers"
	keyIncorrect      = "incorrect_answers"
	keyCurrent        = "current_question"
	keyAnsweredOffset = "answered_question"
	keySelected       = "selected_answer"
	keyAnswerCorrect  = "is_answer_correct"
)

// SessionStore is the per-visitor key-value state the tracker works on.
// sessions.Session from gin-contrib/sessions satisfies it.
type SessionStore interface {
	Get(key interface{}) interface{}
	Set(key interface{}, val interface{})
	Delete(key interface{})
	Clear()
	Save() error
}

// Progress holds the aggregate counters read by the results page.
type Progress struct {
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Percentage is Correct/Attempted*100, or 0 when nothing was attempted.
func (p Progress) Percentage() float64 {
	if p.Attempted <= 0 {
		return 0
	}
	return float64(p.Correct) / float64(p.Attempted) * 100
}

// Answer is the outcome recorded for one offset of a sequential quiz.
type Answer struct {
	Offset   int
	Selected string
	Correct  bool
}

// Tracker reads and mutates quiz state in a visitor's session. Callers must
// Save (or use a method that saves) for changes to persist.
type Tracker struct {
	store SessionStore
}

func NewTracker(store SessionStore) *Tracker {
	return &Tracker{store: store}
}

// Started reports whether the aggregate counters exist.
func (t *Tracker) Started() bool {
	return t.store.Get(keyAttempted) != nil
}

// Progress returns the counters, each defaulting to 0.
func (t *Tracker) Progress() Progress {
	return Progress{
		Attempted: toInt(t.store.Get(keyAttempted)),
		Correct:   toInt(t.store.Get(keyCorrect)),
		Incorrect: toInt(t.store.Get(keyIncorrect)),
	}
}

// Begin initializes the counters to zero when absent. It reports whether
// anything was initialized.
func (t *Tracker) Begin() bool {
	if t.Started() {
		return false
	}
	t.store.Set(keyAttempted, 0)
	t.store.Set(keyCorrect, 0)
	t.store.Set(keyIncorrect, 0)
	return true
}

// Record counts one submitted answer against the stated correct answer and
// saves the session.
func (t *Tracker) Record(selected, correct string) (Progress, error) {
	t.Begin()
	p := t.Progress()
	p.Attempted++
	if selected == correct {
		p.Correct++
	} else {
		p.Incorrect++
	}

	t.store.Set(keyAttempted, p.Attempted)
	t.store.Set(keyCorrect, p.Correct)
	t.store.Set(keyIncorrect, p.Incorrect)
	return p, t.store.Save()
}

// SetCurrent remembers the offset the visitor is looking at.
func (t *Tracker) SetCurrent(offset int) {
	t.store.Set(keyCurrent, offset)
}

// Current returns the last offset set, or 0.
func (t *Tracker) Current() int {
	return toInt(t.store.Get(keyCurrent))
}

// RecordAnswer stores the selected value and its correctness for offset.
// It replaces the answer of any previous offset and leaves the aggregate
// counters alone.
func (t *Tracker) RecordAnswer(offset int, selected string, correct bool) {
	t.store.Set(keyAnsweredOffset, offset)
	t.store.Set(keySelected, selected)
	t.store.Set(keyAnswerCorrect, correct)
}

// AnswerFor returns the answer recorded for offset, if any.
func (t *Tracker) AnswerFor(offset int) (Answer, bool) {
	raw := t.store.Get(keyAnsweredOffset)
	if raw == nil || toInt(raw) != offset {
		return Answer{}, false
	}
	selected, _ := t.store.Get(keySelected).(string)
	correct, _ := t.store.Get(keyAnswerCorrect).(bool)
	return Answer{Offset: offset, Selected: selected, Correct: correct}, true
}

// Save persists pending changes.
func (t *Tracker) Save() error {
	return t.store.Save()
}

// Finish returns the counters and wipes the whole session.
func (t *Tracker) Finish() (Progress, error) {
	p := t.Progress()
	t.store.Clear()
	return p, t.store.Save()
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
