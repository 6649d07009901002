package bot

import (
	"sync"

	"github.com/darynalevychkina/course-work/internal/vehicle"
)

// step tags the current position in a conversation flow.
type step int

const (
	stepIdle step = iota

	// registration
	stepRegName
	stepRegPhone
	stepRegMethod
	stepRegVIN
	stepRegVINConfirm
	stepRegPlate
	stepRegPlateConfirm

	// booking
	stepBookDate
	stepBookTime
	stepBookReason
	stepBookReasonOther

	// admin
	stepAdminDate
	stepAdminAmount
)

// session is the per-user transient conversation state. One live session
// per user: entering a new flow resets whatever was in progress.
type session struct {
	step step

	// registration fields
	fullName string
	phone    string
	vin      string
	plate    string
	vehicle  *vehicle.Vehicle

	// booking fields
	dateKey string
	timeStr string

	// admin amount-entry fields
	amountDateKey string
	amountTime    string
	amountUserID  int64
}

func (s *session) isAdminFlow() bool {
	return s.step == stepAdminDate || s.step == stepAdminAmount
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]*session)}
}

// get returns the user's session, creating an idle one if needed.
func (s *sessionStore) get(userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{}
		s.sessions[userID] = sess
	}
	return sess
}

// reset clears the user's session back to idle and returns the fresh one.
func (s *sessionStore) reset(userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &session{}
	s.sessions[userID] = sess
	return sess
}
