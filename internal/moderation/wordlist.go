package moderation

// Blocked words and phrases for the post filter. Multi-word entries are
// matched as whole phrases, single words with word boundaries, both against
// normalized text (see Normalize).
var hatefulWords = []string{
	"stupid", "idiot", "dumb", "moron", "hate", "bigot", "racist", "sexist",
	"homophobe", "loser", "worthless", "trash", "garbage", "retard", "freak",
	"ugly", "fat", "disgusting", "creep", "kill yourself", "kys", "die",
	"nazi", "terrorist", "go away", "shut up", "pathetic", "ignorant",
	"clown", "jerk", "bastard", "asshole", "bitch", "whore", "slut", "pig",
	"subhuman", "vermin", "scum", "filth", "degenerate", "unwanted",
	"unlovable", "unworthy", "failure", "no one likes you",
	"nobody likes you", "get lost", "drop dead", "go to hell",
	"burn in hell", "die in a fire", "fool", "imbecile", "savage", "monster",
	"disease", "plague", "parasite", "cockroach", "leech", "bloodsucker",
	"menace", "evil", "go die", "i hate you", "you should die",
	"slur1", "slur2",
}
