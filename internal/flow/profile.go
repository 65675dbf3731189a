package flow

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Profile identidad externa normalizada. Email es obligatorio para el
// resto del flujo; el resto es best-effort.
type Profile struct {
	ID    string
	Name  string
	Email string
	Image string
}

// NormalizeProfile mapea el JSON heterogéneo de userinfo a Profile con
// el orden de preferencia genérico por campo.
func NormalizeProfile(raw map[string]interface{}) Profile {
	return Profile{
		ID:    pick(raw, "id", "sub", "user_id", "login"),
		Name:  pick(raw, "name", "display_name", "username", "login"),
		Email: pick(raw, "email", "email_address"),
		Image: pick(raw, "picture", "avatar_url", "image", "avatar"),
	}
}

// pick devuelve el primer campo presente y no vacío, como string.
// Los ids numéricos (GitHub) se stringifican.
func pick(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				return t
			}
		case json.Number:
			return t.String()
		case float64:
			if t == float64(int64(t)) {
				return fmt.Sprintf("%d", int64(t))
			}
			return fmt.Sprintf("%v", t)
		}
	}
	return ""
}
