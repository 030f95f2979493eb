package layout

// Block is one category of the server layout with its channels in order.
type Block struct {
	Category string
	Text     []string
	Voice    []string
}

// Structure is the layout a rebuild recreates. Text channels whose key
// matches a ticket template get a prompt.
var Structure = []Block{
	{
		Category: "🏠・INFORMACIÓN",
		Text:     []string{"👋・bienvenida", "📜・reglas", "📢・anuncios", "🛠️・actualizaciones", "🎭・roles-info", "❓・faq"},
	},
	{
		Category: "💬・COMUNIDAD",
		Text:     []string{"💬・chat-general", "🤣・memes", "🙋・presentaciones", "📸・clips-y-fotos", "🎨・arte-de-la-comunidad", "❔・preguntas"},
		Voice:    []string{"🔊・General", "🗣️・Charla-casual", "🎵・Música-(con-bot)", "🎮・Juegos"},
	},
	{
		Category: "🎮・JUEGO",
		Text:     []string{"📰・game-news", "📘・tutoriales", "⚔️・builds-y-estrategias", "🐞・reportes-bugs", "💡・sugerencias", "🤝・matchmaking", "🤖・comandos-bot"},
	},
	{
		Category: "🛠️・STAFF",
		Text:     []string{"🛠️・staff-chat", "🚨・reportes-internos", "🔨・ban-logs", "⚠️・warn-logs", "🧠・ideas-staff", "📌・pendientes", "🎫・soporte-tickets"},
	},
	{
		Category: "🎟️・TICKETS",
		Text: []string{
			"🎟️・ticket-ayuda-general", "🚫・ticket-reportar-jugador", "🎮・ticket-problemas-con-el-juego",
			"🖥️・ticket-problemas-técnicos", "⚖️・ticket-apelar-sanción", "💰・ticket-donaciones",
		},
	},
	{
		Category: "🎉・EVENTOS",
		Text:     []string{"🎉・eventos-activos", "🏆・ganadores", "🎁・giveaways"},
	},
	{
		Category: "🤖・BOTS",
		Text:     []string{"📡・comandos", "📈・niveles", "🗂️・logs-bot"},
	},
	{
		Category: "🧾・ARCHIVOS-Y-RECURSOS",
		Text: []string{
			"⬇️・descargas", "📄・documentación", "📜・historial-del-proyecto",
			"📚・lore-cakeverso", "🚧・progreso-del-juego", "👀・sneak-peeks", "🗳️・votaciones",
		},
	},
}
