package slang

// SourceLanguage is the language the built-in vocabulary comes from.
const SourceLanguage = "es"

// phrases maps lowercased slang to its English gloss.
var phrases = map[string]string{
	// performance and status
	"bistec":     "buff",
	"op":         "overpowered",
	"nerfear":    "nerf",
	"rushear":    "rush",
	"ptm":        "damn",
	"campear":    "camping",
	"farmear":    "farming",
	"lootear":    "looting",
	"spawnear":   "spawning",
	"lagger":     "lagging",
	"lagueado":   "lagging",
	"bugeado":    "bugged",
	"rip":        "dead",
	"f":          "rip",
	"manco":      "noob",
	"puntaje":    "score",
	"reconectar": "reconnecting",

	// reactions and affirmations
	"si":         "yeah",
	"eso si":     "yeah",
	"ostia tio":  "holy crap dude",
	"tio":        "bro",
	"broca":      "bro",
	"brocoli":    "bro",
	"brocha":     "bro",
	"vale":       "ok",
	"va":         "ok",
	"sale":       "ok",
	"sobres":     "alright",
	"fierro":     "let's go",
	"joder":      "damn",
	"vamos":      "let's go",
	"que pasa":   "what's up",
	"que onda":   "what's up",
	"no mames":   "no way",
	"no manches": "no way",
	"pinche":     "freaking",
	"wey":        "dude",
	"güey":       "dude",
	"chido":      "cool",
	"a huevo":    "hell yeah",
	"nel":        "nope",
	"simon":      "yeah",
	"neta":       "really",
	"equis":      "whatever",
	"x":          "whatever",

	// team communication
	"gg":      "good game",
	"wp":      "well played",
	"np":      "no problem",
	"ez":      "easy",
	"izi":     "ez",
	"ayuda":   "help",
	"cuidado": "watch out",
	"atras":   "behind",
	"vienen":  "incoming",
	"tanque":  "tank",
	"bruja":   "witch",

	// "nice" and its stretched spellings
	"rico":         "nice",
	"delicioso":    "delicious",
	"deli":         "nice",
	"ricx":         "nice",
	"ricxo":        "nice",
	"ricoo":        "nice",
	"ricooo":       "niceee",
	"ricxoooooo":   "niceeee",
	"q rico":       "so nice",
	"que rico":     "so nice",
	"q ric":        "so nice",
	"que ric":      "so nice",
	"q ricx":       "so nice",
	"que ricx":     "so nice",
	"q ricxoooooo": "so niceeee",
}

// addressTerms are informal ways to address someone that follow a name,
// as in "Jason broca".
var addressTerms = map[string]string{
	"broca":   "bro",
	"brocoli": "bro",
	"brocha":  "bro",
	"wey":     "dude",
	"güey":    "dude",
	"tio":     "bro",
}

// restricted words are never glossed inside a sentence; they only match as a
// whole phrase ("si", "eso si"). "si" is also part of ordinary sentences.
var restricted = []string{"si"}

// indicators are substrings that mark text as written in SourceLanguage
// without asking a remote detector. "si" is left out on purpose.
var indicators = []string{
	"hola", "amigo", "que", "como", "estas", "bien",
	"gracias", "por favor", "ostia", "tio",
	"vale", "joder", "vamos", "adios", "wey", "chido",
	"pinche", "mames", "bistec",
}
