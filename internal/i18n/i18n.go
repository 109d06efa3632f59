package i18n

import (
	"mendizabala/dual/internal/model"
)

const (
	Basque  = "eu"
	Spanish = "es"
	Default = Basque
)

var catalogs = map[string]map[string]string{
	Basque: {
		"app.title":           "Mendizabala LHII - Duala",
		"nav.teachers":        "Irakasleak",
		"nav.companies":       "Enpresak",
		"nav.kanban":          "Esleipenak",
		"teachers.name":       "Izena",
		"teachers.email":      "Posta elektronikoa",
		"teachers.substitute": "Ordezkoa",
		"teachers.noTeachers": "Ez dago irakaslerik",
		"teachers.deleted":    "Irakaslea ezabatuta",
		"companies.name":      "Izena",
		"companies.location":  "Kokapena",
		"companies.contact":   "Harremanetarako pertsona",
		"companies.email":     "Posta elektronikoa",
		"companies.phone":     "Telefonoa",
		"companies.website":   "Webgunea",
		"companies.teacher":   "Irakaslea",
		"companies.notFound":  "Ez da enpresarik aurkitu",
		"companies.deleted":   "Enpresa ezabatuta",
		"status.label":        "Egoera",
		"status.green":        "Berdea",
		"status.orange":       "Laranja",
		"status.red":          "Gorria",
		"demand.dual1":        "Duala 1",
		"demand.general":      "Duala orokorra",
		"demand.intensive":    "Duala trinkoa",
		"demand.total":        "Eskaria guztira",
		"kanban.unassigned":   "Esleitu gabe",
		"kanban.noCompanies":  "Enpresarik ez",
		"kanban.noUnassigned": "Esleitu gabeko enpresarik ez",
		"kanban.moved":        "Enpresa mugituta",
		"login.title":         "Saioa hasi",
		"login.success":       "Saioa hasita",
		"login.codeSent":      "Kodea zure posta elektronikora bidali da",
		"logout":              "Saioa itxita",
		"role.select":         "Aukeratu rola",
		"role.active":         "Rol aktiboa",
		"lang.changed":        "Hizkuntza aldatuta",
		"session.expired":     "Saioa iraungi da, hasi saioa berriro",
		"error.network":       "Sareko errorea, saiatu berriro",
		"export.written":      "Esportazioa idatzita",
		"loading":             "Kargatzen...",
	},
	Spanish: {
		"app.title":           "Mendizabala LHII - Dual",
		"nav.teachers":        "Profesores",
		"nav.companies":       "Empresas",
		"nav.kanban":          "Asignaciones",
		"teachers.name":       "Nombre",
		"teachers.email":      "Correo electrónico",
		"teachers.substitute": "Sustituto",
		"teachers.noTeachers": "No hay profesores",
		"teachers.deleted":    "Profesor eliminado",
		"companies.name":      "Nombre",
		"companies.location":  "Ubicación",
		"companies.contact":   "Persona de contacto",
		"companies.email":     "Correo electrónico",
		"companies.phone":     "Teléfono",
		"companies.website":   "Sitio web",
		"companies.teacher":   "Profesor",
		"companies.notFound":  "No se encontraron empresas",
		"companies.deleted":   "Empresa eliminada",
		"status.label":        "Estado",
		"status.green":        "Verde",
		"status.orange":       "Naranja",
		"status.red":          "Rojo",
		"demand.dual1":        "Dual 1",
		"demand.general":      "Dual general",
		"demand.intensive":    "Dual intensivo",
		"demand.total":        "Demanda total",
		"kanban.unassigned":   "Sin asignar",
		"kanban.noCompanies":  "Sin empresas",
		"kanban.noUnassigned": "No hay empresas sin asignar",
		"kanban.moved":        "Empresa movida",
		"login.title":         "Iniciar sesión",
		"login.success":       "Sesión iniciada",
		"login.codeSent":      "Código enviado a tu email",
		"logout":              "Sesión cerrada",
		"role.select":         "Selecciona un rol",
		"role.active":         "Rol activo",
		"lang.changed":        "Idioma cambiado",
		"session.expired":     "La sesión ha caducado, vuelve a iniciar sesión",
		"error.network":       "Error de red, inténtalo de nuevo",
		"export.written":      "Exportación escrita",
		"loading":             "Cargando...",
	},
}

// Translator looks up labels for one language. Missing keys echo the key.
type Translator struct {
	lang string
	dict map[string]string
}

// For returns the translator for lang, falling back to Basque.
func For(lang string) Translator {
	dict, ok := catalogs[lang]
	if !ok {
		lang = Default
		dict = catalogs[Default]
	}
	return Translator{lang: lang, dict: dict}
}

func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}

func (t Translator) Lang() string {
	return t.lang
}

func (t Translator) T(key string) string {
	if value, ok := t.dict[key]; ok {
		return value
	}
	return key
}

func (t Translator) Status(status model.Status) string {
	if !status.Valid() {
		return string(status)
	}
	return t.T("status." + string(status))
}
