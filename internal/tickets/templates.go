package tickets

// DefaultTemplateID is used when a channel matches no known template.
const DefaultTemplateID = "ticket-ayuda-general"

const (
	promptColor  = 0x99ccff
	welcomeColor = 0x88ffcc
	promptCall   = "🔽 **PARA ABRIR UN TICKET REACCIONA**"
)

type Field struct {
	Name  string
	Value string
}

// Template is a static ticket type. Trigger is the reaction that opens it.
type Template struct {
	ID          string
	Title       string
	Description string
	Fields      []Field
	Footer      string
	Trigger     string
}

type Catalog []Template

func (c Catalog) Lookup(id string) (Template, bool) {
	for _, tmpl := range c {
		if tmpl.ID == id {
			return tmpl, true
		}
	}
	return Template{}, false
}

// Templates is the fixed catalog in prompt order.
var Templates = Catalog{
	{
		ID:          "ticket-ayuda-general",
		Title:       "🆘 Ayuda General",
		Description: "Antes de abrir un ticket asegúrate de que tu duda no esté respondida en los canales informativos.\nProporciona información clara para que podamos ayudarte rápidamente.",
		Fields: []Field{
			{Name: "📄 Información necesaria", Value: "• Explica tu duda o problema de forma detallada.\n• Adjunta capturas, ejemplos o contexto relevante.\n• Indica si probaste alguna solución previamente."},
		},
		Footer:  "⚠️ Nota: El uso indebido del sistema de tickets puede causar advertencias o sanciones.",
		Trigger: "🎟️",
	},
	{
		ID:          "ticket-reportar-jugador",
		Title:       "🚫 Reportar a un Usuario",
		Description: "Antes de reportar, asegúrate de que realmente se haya incumplido una norma del servidor o de Discord.\nNo incluyas pruebas falsificadas o podrás recibir una sanción.",
		Fields: []Field{
			{Name: "📄 Información necesaria", Value: "• Tag / ID / usuario a reportar.\n• Canal donde ocurrió el incidente.\n• Razón del reporte.\n• Pruebas (capturas, vídeos, grabaciones de voz)."},
			{Name: "🆔 Obtener ID", Value: "Activa el modo desarrollador en Ajustes > Avanzado > Modo Desarrollador.\nLuego clic derecho en el usuario → Copiar ID."},
		},
		Trigger: "🚫",
	},
	{
		ID:          "ticket-problemas-con-el-juego",
		Title:       "🎮 Problemas con el Juego",
		Description: "Si tienes inconvenientes dentro del juego, aporta toda la información posible para acelerar la asistencia.",
		Fields: []Field{
			{Name: "📄 Información necesaria", Value: "• Describe el problema con detalle (error, bug, crasheos).\n• Nombre del juego.\n• Plataforma (PC, móvil, consola).\n• Capturas, grabaciones o mensajes de error.\n• Pasos realizados antes del fallo."},
		},
		Footer:  "ℹ️ Nota: Si el problema es general y ya está siendo investigado, te informaremos en el ticket.",
		Trigger: "🎮",
	},
	{
		ID:          "ticket-problemas-técnicos",
		Title:       "🖥️ Problemas Técnicos",
		Description: "Usa este ticket para problemas con Discord o con el juego.",
		Fields: []Field{
			{Name: "📄 Información necesaria", Value: "• Explica tu problema detalladamente.\n• Adjunta capturas o vídeos del problema.\n• Acciones que ya intentaste."},
		},
		Trigger: "🖥️",
	},
	{
		ID:          "ticket-apelar-sanción",
		Title:       "⚖️ Apelar Sanción",
		Description: "Proporciona información real y completa. Manipular datos resultará en apelación rechazada.",
		Fields: []Field{
			{Name: "📄 Información necesaria", Value: "• Tu Tag / ID de usuario.\n• Tipo de sanción (mute, ban, warn…).\n• Fecha aproximada.\n• Motivo por el cual crees que la sanción fue injusta.\n• Pruebas o contexto adicional."},
		},
		Footer:  "⚠️ Importante: No abras múltiples apelaciones por el mismo caso.",
		Trigger: "⚖️",
	},
	{
		ID:          "ticket-donaciones",
		Title:       "💰 Donaciones",
		Description: "Usa este ticket para resolver dudas o aportar a las donaciones del proyecto.",
		Fields: []Field{
			{Name: "📄 Información necesaria", Value: "• Método de donación que usarás o usaste.\n• Cantidad donada o a donar.\n• Captura del comprobante (si aplica).\n• Dudas sobre beneficios o roles."},
		},
		Footer:  "💎 Nota: Las donaciones son voluntarias y no reembolsables.",
		Trigger: "💰",
	},
}
