package file

// Config holds the paths used by the file storage
type Config struct {
	// UsersFile is the registry file, one `id:name:flag` record per line
	UsersFile string

	// SessionDir holds one directory per day with one guess file per user
	SessionDir string
}
