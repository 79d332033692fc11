package git

import "strings"

// Address builds repository URIs for one git host
type Address struct {
	Scheme   string
	Host     string
	Auth     string // optional user[:password]
	Port     string // optional
	MainRepo string
	DevDir   string
}

// URI maps the main repository to its canonical path and every other name under DevDir
// scheme://[auth@]host[:port]/main or scheme://[auth@]host[:port]/devdir/name
func (a Address) URI(repo string) string {
	netloc := a.Host
	if a.Auth != "" {
		netloc = a.Auth + "@" + netloc
	}
	if a.Port != "" {
		netloc = netloc + ":" + a.Port
	}
	var b strings.Builder
	b.WriteString(a.Scheme)
	b.WriteString("://")
	b.WriteString(netloc)
	b.WriteByte('/')
	if repo == a.MainRepo {
		b.WriteString(a.MainRepo)
		return b.String()
	}
	b.WriteString(a.DevDir)
	b.WriteByte('/')
	b.WriteString(repo)
	return b.String()
}
