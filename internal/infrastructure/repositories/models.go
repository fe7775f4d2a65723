package repositories

// Models lists every persisted model in migration order
func Models() []any {
	return []any{&DBUser{}, &DBContact{}, &DBPhoto{}, &DBCategory{}, &DBBook{}}
}
