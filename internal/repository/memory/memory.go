// Package memory implements db.BookingStore without a database. Row-level
// locks are modeled with one mutex per row, held from the *ForUpdate read
// until Commit or Rollback, so concurrent transactions on the same row
// serialize exactly like SELECT ... FOR UPDATE.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"autorent/internal/apperrors"
	"autorent/internal/db"
)

var errTxDone = errors.New("transaction already finished")

type Store struct {
	mu       sync.Mutex
	vehicles map[string]db.Vehicle
	bookings map[string]db.Booking
	rowLocks map[string]*sync.Mutex
}

func New() *Store {
	return &Store{
		vehicles: make(map[string]db.Vehicle),
		bookings: make(map[string]db.Booking),
		rowLocks: make(map[string]*sync.Mutex),
	}
}

// AddVehicle seeds a vehicle row.
func (s *Store) AddVehicle(v db.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v.ID] = v
}

// AddBooking seeds a booking row.
func (s *Store) AddBooking(b db.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = b
}

// Vehicle returns a snapshot of a vehicle row.
func (s *Store) Vehicle(id string) (db.Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	return v, ok
}

// Booking returns a snapshot of a booking row.
func (s *Store) Booking(id string) (db.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	return b, ok
}

func (s *Store) rowLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rowLocks[key]
	if !ok {
		m = &sync.Mutex{}
		s.rowLocks[key] = m
	}
	return m
}

func (s *Store) Begin(ctx context.Context) (db.BookingTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memTx{store: s}, nil
}

func (s *Store) ListBookings(ctx context.Context) ([]db.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bookings := make([]db.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (s *Store) ListBookingsByCustomer(ctx context.Context, customerID string) ([]db.Booking, error) {
	all, err := s.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	var bookings []db.Booking
	for _, b := range all {
		if b.CustomerID == customerID {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

// memTx buffers writes and applies them atomically at Commit while the row
// locks taken by the *ForUpdate reads are still held.
type memTx struct {
	store  *Store
	held   []*sync.Mutex
	writes []func(*Store)
	done   bool
}

func (t *memTx) VehicleForUpdate(ctx context.Context, id string) (*db.Vehicle, error) {
	if t.done {
		return nil, errTxDone
	}
	m := t.store.rowLock("vehicle:" + id)
	m.Lock()

	t.store.mu.Lock()
	v, ok := t.store.vehicles[id]
	t.store.mu.Unlock()
	if !ok {
		m.Unlock()
		return nil, apperrors.NotFound("vehicle not found")
	}
	t.held = append(t.held, m)
	return &v, nil
}

func (t *memTx) BookingForUpdate(ctx context.Context, id string) (*db.Booking, error) {
	if t.done {
		return nil, errTxDone
	}
	m := t.store.rowLock("booking:" + id)
	m.Lock()

	t.store.mu.Lock()
	b, ok := t.store.bookings[id]
	t.store.mu.Unlock()
	if !ok {
		m.Unlock()
		return nil, apperrors.NotFound("booking not found")
	}
	t.held = append(t.held, m)
	return &b, nil
}

func (t *memTx) InsertBooking(ctx context.Context, booking *db.Booking) error {
	if t.done {
		return errTxDone
	}
	row := *booking
	t.writes = append(t.writes, func(s *Store) {
		s.bookings[row.ID] = row
	})
	return nil
}

func (t *memTx) UpdateBookingStatus(ctx context.Context, id, status string) error {
	if t.done {
		return errTxDone
	}
	t.writes = append(t.writes, func(s *Store) {
		if b, ok := s.bookings[id]; ok {
			b.Status = status
			s.bookings[id] = b
		}
	})
	return nil
}

func (t *memTx) UpdateVehicleAvailability(ctx context.Context, id, status string) error {
	if t.done {
		return errTxDone
	}
	t.writes = append(t.writes, func(s *Store) {
		if v, ok := s.vehicles[id]; ok {
			v.AvailabilityStatus = status
			s.vehicles[id] = v
		}
	})
	return nil
}

func (t *memTx) Commit() error {
	if t.done {
		return errTxDone
	}
	t.store.mu.Lock()
	for _, write := range t.writes {
		write(t.store)
	}
	t.store.mu.Unlock()
	t.finish()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.writes = nil
	t.finish()
	return nil
}

func (t *memTx) finish() {
	for _, m := range t.held {
		m.Unlock()
	}
	t.held = nil
	t.done = true
}
