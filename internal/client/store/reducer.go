package store

import "github.com/you/neuraread/domain"

// Reduce returns the state after a. It never mutates s.
func Reduce(s State, a Action) State {
	s.Auth = reduceAuth(s.Auth, a)
	s.Data = reduceData(s.Data, a)
	s.Requests = reduceRequests(s.Requests, a)
	s.Notification = reduceNotification(s.Notification, a)
	return s
}

func reduceAuth(s AuthState, a Action) AuthState {
	switch a := a.(type) {
	case LoggedIn:
		u := a.User
		s.IsLoggedIn = true
		s.User = &u
	case LoggedOut:
		return AuthState{}
	case AdminLoaded:
		u := a.User
		s.AdminData = &u
	}
	return s
}

func userID(u domain.User) uint         { return u.ID }
func categoryID(c domain.Category) uint { return c.ID }
func bookID(b domain.Book) uint         { return b.ID }

func reduceData(s DataState, a Action) DataState {
	switch a := a.(type) {
	case TotalUsersLoaded:
		s.Totals.Users = ptr(a.Total)
		s.Users = orderedFrom(a.Users, userID)
	case TotalContactsLoaded:
		s.Totals.Contacts = ptr(a.Total)
	case TotalImagesLoaded:
		s.Totals.Images = ptr(a.Total)
	case TotalBooksLoaded:
		s.Totals.Books = ptr(a.Total)
	case TotalCategoriesLoaded:
		s.Totals.Categories = ptr(a.Total)
	case AverageBooksLoaded:
		s.Totals.Average = ptr(a.Average)

	case UserContactsLoaded:
		s.ContactsByUser = withKey(s.ContactsByUser, a.UserID, domain.NormalizeContacts(a.Contacts))
	case UserGalleryLoaded:
		photos := append([]domain.Photo(nil), a.Photos...)
		s.ImagesByUser = withKey(s.ImagesByUser, a.UserID, photos)

	case CategoriesLoaded:
		s.Categories = orderedFrom(a.Categories, categoryID)
	case CategoryAdded:
		s.Categories = s.Categories.with(a.Category.ID, a.Category)
	case CategoryUpdated:
		if _, ok := s.Categories.Get(a.Category.ID); ok {
			s.Categories = s.Categories.with(a.Category.ID, a.Category)
		}
	case CategoryRemoved:
		s.Categories = s.Categories.without(a.ID)

	case BooksLoaded:
		s.Books = orderedFrom(a.Books, bookID)
	case BookAdded:
		s.Books = s.Books.with(a.Book.ID, a.Book)
	case BookUpdated:
		s.Books = s.Books.with(a.Book.ID, a.Book)
	case BookRemoved:
		s.Books = s.Books.without(a.ID)

	case UsersLoaded:
		s.Users = orderedFrom(a.Users, userID)
	case UserRemoved:
		s.Users = s.Users.without(a.ID)
		s.ContactsByUser = withoutKey(s.ContactsByUser, a.ID)
		s.ImagesByUser = withoutKey(s.ImagesByUser, a.ID)
	}
	return s
}

func reduceRequests(s map[ActionID]RequestState, a Action) map[ActionID]RequestState {
	switch a := a.(type) {
	case RequestStarted:
		return withKey(s, a.ID, RequestState{Loading: true})
	case RequestSucceeded:
		return withoutKey(s, a.ID)
	case RequestFailed:
		return withKey(s, a.ID, RequestState{Error: true})
	}
	return s
}

func reduceNotification(s Notification, a Action) Notification {
	switch a := a.(type) {
	case NotificationShown:
		return Notification{ID: a.ID, Open: true, Severity: a.Severity, Message: a.Message}
	case NotificationDismissed:
		// A late timer from a pre-empted notification must not close the current one
		if a.ID == s.ID {
			return Notification{ID: s.ID}
		}
	}
	return s
}

func ptr[T any](v T) *T { return &v }

func withKey[K comparable, V any](m map[K]V, k K, v V) map[K]V {
	out := make(map[K]V, len(m)+1)
	for key, val := range m {
		out[key] = val
	}
	out[k] = v
	return out
}

func withoutKey[K comparable, V any](m map[K]V, k K) map[K]V {
	if _, ok := m[k]; !ok {
		return m
	}
	out := make(map[K]V, len(m))
	for key, val := range m {
		if key != k {
			out[key] = val
		}
	}
	return out
}
