package core

import "time"

// User cuenta local. Las cuentas creadas por OAuth tienen PasswordHash nil.
type User struct {
	ID           string
	Email        string
	Name         string
	Image        string
	PasswordHash *string
	IsAdmin      bool
	GroupID      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Group grupo de usuarios. A lo sumo uno tiene IsDefault=true.
type Group struct {
	ID        string
	Name      string
	IsDefault bool
	CreatedAt time.Time
}

// ProviderRecord fila persistida de un provider OAuth.
// ClientSecret se guarda ofuscado (secretbox); el registry lo descifra al leer.
type ProviderRecord struct {
	ID           string
	Name         string
	DisplayName  string
	ClientID     string
	ClientSecret string
	AuthorizeURL string
	TokenURL     string
	UserInfoURL  string
	Scope        string
	LogoURL      string
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
