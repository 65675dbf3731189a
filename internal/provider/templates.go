package provider

// Template es una configuración builtin de un provider conocido.
// El admin la usa como punto de partida: endpoints y scope ya cargados,
// credenciales a completar.
type Template struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	AuthorizeURL string `json:"authorizeUrl"`
	TokenURL     string `json:"tokenUrl"`
	UserInfoURL  string `json:"userInfoUrl"`
	Scope        string `json:"scope"`
}

var builtinTemplates = []Template{
	{
		Name:         "github",
		DisplayName:  "GitHub",
		AuthorizeURL: "https://github.com/login/oauth/authorize",
		TokenURL:     "https://github.com/login/oauth/access_token",
		UserInfoURL:  "https://api.github.com/user",
		Scope:        "user:email",
	},
	{
		Name:         "google",
		DisplayName:  "Google",
		AuthorizeURL: "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:     "https://oauth2.googleapis.com/token",
		UserInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
		Scope:        "openid email profile",
	},
	{
		Name:         "discord",
		DisplayName:  "Discord",
		AuthorizeURL: "https://discord.com/api/oauth2/authorize",
		TokenURL:     "https://discord.com/api/oauth2/token",
		UserInfoURL:  "https://discord.com/api/users/@me",
		Scope:        "identify email",
	},
	{
		Name:         "gitlab",
		DisplayName:  "GitLab",
		AuthorizeURL: "https://gitlab.com/oauth/authorize",
		TokenURL:     "https://gitlab.com/oauth/token",
		UserInfoURL:  "https://gitlab.com/api/v4/user",
		Scope:        "read_user",
	},
	{
		Name:         "microsoft",
		DisplayName:  "Microsoft",
		AuthorizeURL: "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
		TokenURL:     "https://login.microsoftonline.com/common/oauth2/v2.0/token",
		UserInfoURL:  "https://graph.microsoft.com/v1.0/me",
		Scope:        "openid email profile",
	},
}

// Templates devuelve los templates builtin en orden estable.
func Templates() []Template {
	out := make([]Template, len(builtinTemplates))
	copy(out, builtinTemplates)
	return out
}

// TemplateByName busca un template builtin por nombre.
func TemplateByName(name string) (Template, bool) {
	for _, t := range builtinTemplates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
