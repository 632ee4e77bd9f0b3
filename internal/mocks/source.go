package mocks

import (
	"context"
	"sync"

	"github.com/user-directory/internal/directory"
	"github.com/user-directory/internal/models"
)

// MockSource is a mock implementation of directory.Source
type MockSource struct {
	mu        sync.Mutex
	Users     []models.User
	FetchErr  error
	FetchFunc func(ctx context.Context) ([]models.User, error)
	Calls     int
}

// Verify interface compliance
var _ directory.Source = (*MockSource)(nil)

func NewMockSource(users []models.User) *MockSource {
	return &MockSource{Users: users}
}

func (m *MockSource) Fetch(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	out := make([]models.User, len(m.Users))
	copy(out, m.Users)
	return out, nil
}

// CallCount returns the number of Fetch calls so far
func (m *MockSource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// SeedUsers returns ten users shaped like the public mock user list
func SeedUsers() []models.User {
	return []models.User{
		{Name: "Leanne Graham", Email: "Sincere@april.biz"},
		{Name: "Ervin Howell", Email: "Shanna@melissa.tv"},
		{Name: "Clementine Bauch", Email: "Nathan@yesenia.net"},
		{Name: "Patricia Lebsack", Email: "Julianne.OConner@kory.org"},
		{Name: "Chelsey Dietrich", Email: "Lucio_Hettinger@annie.ca"},
		{Name: "Mrs. Dennis Schulist", Email: "Karley_Dach@jasper.info"},
		{Name: "Kurtis Weissnat", Email: "Telly.Hoeger@billy.biz"},
		{Name: "Nicholas Runolfsdottir V", Email: "Sherwood@rosamond.me"},
		{Name: "Glenna Reichert", Email: "Chaim_McDermott@dana.io"},
		{Name: "Clementina DuBuque", Email: "Rey.Padberg@karina.biz"},
	}
}
