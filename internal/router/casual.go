package router

// casualReplies answers small talk without touching the index or an LLM.
// Lookup is exact on the normalized query.
var casualReplies = map[string]string{
	"hi":        "👋 Hey there!",
	"hello":     "Hello! 😊",
	"hey":       "Hey! 👋",
	"thanks":    "You're welcome!",
	"thank you": "Anytime! 🤝",
	"bye":       "Bye! 👋 Come back any time.",
}
