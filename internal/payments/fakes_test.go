package payments

import (
	"context"
	"errors"
	"sync"

	"course-app/internal/domain/courses"
	"course-app/internal/domain/notifications"
	"course-app/internal/domain/orders"
	"course-app/internal/domain/users"
)

// memStore is an in-memory Store honoring the per-call atomicity the real
// gormstore provides.
type memStore struct {
	mu            sync.Mutex
	users         map[uint]*users.User
	courses       map[uint]*courses.Course
	owned         map[[2]uint]bool
	notifications []*notifications.Notification
	purchased     map[uint]int64
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[uint]*users.User{},
		courses:   map[uint]*courses.Course{},
		owned:     map[[2]uint]bool{},
		purchased: map[uint]int64{},
	}
}

func (s *memStore) addUser(u *users.User)       { s.users[u.ID] = u }
func (s *memStore) addCourse(c *courses.Course) { s.courses[c.ID] = c }

func (s *memStore) FindUserByID(_ context.Context, id uint) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *memStore) FindCourseByID(_ context.Context, id uint) (*courses.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courses[id], nil
}

func (s *memStore) UserOwnsCourse(_ context.Context, userID, courseID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owned[[2]uint{userID, courseID}], nil
}

func (s *memStore) AddCourseToUser(_ context.Context, userID, courseID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uint{userID, courseID}
	if s.owned[key] {
		return false, nil
	}
	s.owned[key] = true
	return true, nil
}

func (s *memStore) IncrementCoursePurchased(_ context.Context, courseID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchased[courseID]++
	return nil
}

func (s *memStore) InsertNotification(_ context.Context, n *notifications.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return nil
}

// memLedger mirrors the gormstore ledger semantics: conditional insert on
// the payment id, guarded status swaps with PAID as the one absolute
// terminal state.
type memLedger struct {
	mu        sync.Mutex
	byPayment map[string]*orders.Order
	nextID    uint
}

func newMemLedger() *memLedger {
	return &memLedger{byPayment: map[string]*orders.Order{}}
}

func cloneOrder(o *orders.Order) *orders.Order {
	c := *o
	return &c
}

func (l *memLedger) FindByPaymentID(_ context.Context, paymentID string) (*orders.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o, ok := l.byPayment[paymentID]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (l *memLedger) CreateIfAbsent(_ context.Context, o *orders.Order) (*orders.Order, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.byPayment[o.PaymentID]; ok {
		return cloneOrder(existing), false, nil
	}
	l.nextID++
	stored := cloneOrder(o)
	stored.ID = l.nextID
	l.byPayment[o.PaymentID] = stored
	return cloneOrder(stored), true, nil
}

func (l *memLedger) UpdateStatus(_ context.Context, paymentID string, status orders.Status) (*orders.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o, ok := l.byPayment[paymentID]
	if !ok {
		return nil, errors.New("no order for payment id " + paymentID)
	}
	switch {
	case o.Status == orders.StatusPending,
		status == orders.StatusPaid && o.Status == orders.StatusFailed:
		o.Status = status
		o.Payment.SetStatus(string(status))
	}
	return cloneOrder(o), nil
}

func (l *memLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byPayment)
}

type fakeCards struct {
	mu       sync.Mutex
	sessions map[string]*CardSession
	created  []CardSessionParams
	err      error
}

func newFakeCards() *fakeCards {
	return &fakeCards{sessions: map[string]*CardSession{}}
}

func (f *fakeCards) CreateSession(_ context.Context, p CardSessionParams) (*CardSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	sess := &CardSession{
		ID:            "cs_test_1",
		URL:           "https://checkout.example.com/cs_test_1",
		PaymentStatus: "unpaid",
		AmountTotal:   p.AmountMinor,
		Currency:      p.Currency,
		CourseID:      p.CourseID,
		UserID:        p.UserID,
	}
	f.sessions[sess.ID] = sess
	return sess, nil
}

func (f *fakeCards) GetSession(_ context.Context, id string) (*CardSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	sess, ok := f.sessions[id]
	if !ok {
		return nil, &ProviderError{Provider: "stripe", StatusCode: 404, Message: "no such session"}
	}
	return sess, nil
}

type fakeQr struct {
	mu       sync.Mutex
	requests []QrRequest
	err      error
}

func (f *fakeQr) CreatePaymentRequest(_ context.Context, req QrRequest) (*QrResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	return &QrResult{
		OrderCode:     req.OrderCode,
		PaymentLinkID: "pl_test",
		Status:        "PENDING",
		Amount:        req.Amount,
		Currency:      "VND",
		QrCode:        "000201010212...",
		CheckoutURL:   "https://pay.example.com/web/pl_test",
		ExpiredAt:     req.ExpiredAt,
		Bin:           "970422",
		AccountNumber: "1234567890",
		AccountName:   "COURSE APP",
	}, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeMailer) SendPurchaseEmail(to, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakePublisher struct {
	mu         sync.Mutex
	userEvents []string
	broadcasts []string
	err        error
}

func (f *fakePublisher) PublishToUser(_ context.Context, _ uint, event string, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.userEvents = append(f.userEvents, event)
	return nil
}

func (f *fakePublisher) Broadcast(_ context.Context, event string, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.broadcasts = append(f.broadcasts, event)
	return nil
}
