package quiz

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"ramsblog/common"
	"ramsblog/models"
)

const (
	relatedLimit      = 5
	testSeriesPerPage = 20
)

// SequentialView is one step of a grouped quiz.
type SequentialView struct {
	Group          *Group
	Question       *models.Question
	Options        []string
	Offset         int
	NextQuestionID int
}

// RandomView is a question picked by id plus what to show next to it.
type RandomView struct {
	Question              *models.Question
	Options               []string
	CorrectAnswerPosition int
	NextQuestion          *models.Question
	Related               []models.Question
}

// ResultView is the terminal page of a practice session.
type ResultView struct {
	Progress     Progress
	Percentage   float64
	NextQuestion *models.Question
}

type Service struct {
	repo Repository
	rnd  Randomizer
}

// NewService builds a service; a nil rnd uses math/rand/v2.
func NewService(repo Repository, rnd Randomizer) *Service {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Service{repo: repo, rnd: rnd}
}

// ParseOffset reads a zero-based offset; anything unparsable or negative is 0.
func ParseOffset(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Sequential returns the question at offset within the group's ordered
// questions. It returns ErrNotFound for an unknown group and
// ErrEndOfQuestions once offset runs past the last question.
func (s *Service) Sequential(kind Kind, slug string, offset int) (*SequentialView, error) {
	group, err := s.repo.FindGroup(kind, slug)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountQuestions(group.Scope())
	if err != nil {
		return nil, err
	}
	if int64(offset) >= total {
		return nil, ErrEndOfQuestions
	}

	q, err := s.repo.QuestionAt(group.Scope(), offset)
	if err != nil {
		return nil, err
	}

	options, _ := ShuffleOptions(q, s.rnd)
	return &SequentialView{
		Group:          group,
		Question:       q,
		Options:        options,
		Offset:         offset,
		NextQuestionID: offset + 1,
	}, nil
}

// Random returns the question uid with shuffled options, a next question
// and up to five related questions, none of which is the question itself.
func (s *Service) Random(uid string) (*RandomView, error) {
	if _, err := uuid.Parse(uid); err != nil {
		return nil, fmt.Errorf("question %q: %w", uid, ErrNotFound)
	}

	q, err := s.repo.QuestionByUID(uid)
	if err != nil {
		return nil, err
	}

	pool, err := s.repo.QuestionIDsExcept(q.ID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrEndOfQuestions
	}

	options, correct := ShuffleOptions(q, s.rnd)

	picked, err := s.repo.QuestionsByIDs([]uint{pool[s.rnd.IntN(len(pool))]})
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, ErrEndOfQuestions
	}

	related, err := s.repo.QuestionsByIDs(Sample(pool, relatedLimit, s.rnd))
	if err != nil {
		return nil, err
	}

	return &RandomView{
		Question:              q,
		Options:               options,
		CorrectAnswerPosition: correct,
		NextQuestion:          &picked[0],
		Related:               related,
	}, nil
}

// AnyQuestion picks one question uniformly from all of them, or nil when
// there are none.
func (s *Service) AnyQuestion() (*models.Question, error) {
	total, err := s.repo.CountQuestions(Scope{})
	if err != nil || total == 0 {
		return nil, err
	}
	q, err := s.repo.QuestionAt(Scope{}, s.rnd.IntN(int(total)))
	if err == ErrEndOfQuestions {
		return nil, nil
	}
	return q, err
}

// Results builds the results page for p.
func (s *Service) Results(p Progress) (*ResultView, error) {
	next, err := s.AnyQuestion()
	if err != nil {
		return nil, err
	}
	return &ResultView{
		Progress:     p,
		Percentage:   p.Percentage(),
		NextQuestion: next,
	}, nil
}

// TestSeries lists purposes, perPage 20.
func (s *Service) TestSeries(page int) (*common.Page[models.Purpose], error) {
	return s.repo.Purposes(page, testSeriesPerPage)
}

func (s *Service) SubCategoryTree() ([]models.Category, error) {
	return s.repo.CategoriesWithSubCategories()
}

func (s *Service) TotalQuestions() (int64, error) {
	return s.repo.CountQuestions(Scope{})
}
