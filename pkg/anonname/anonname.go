// Package anonname generates the random anonymous usernames shown on posts.
// Format: <Adjective><Animal><2-digit number>, e.g. "WobblyNarwhal42".
package anonname

import (
	"fmt"
	"math/rand"
)

var adjectives = []string{
	"Blue", "Green", "Red", "Yellow", "Purple", "Orange", "Silver", "Golden",
	"Wobbly", "Fluffy", "Sparkly", "Goofy", "Bouncy", "Sassy", "Zippy",
	"Giggly", "Dizzy", "Snazzy", "Loopy", "Squishy", "Jumpy", "Quirky",
	"Wiggly", "Cheeky", "Funky", "Snoozy", "Peppy", "Nifty", "Dorky",
	"Spooky", "Bubbly", "Nutty",
}

var animals = []string{
	"Fox", "Wolf", "Bear", "Lion", "Tiger", "Eagle", "Shark", "Otter",
	"Unicorn", "Mermaid", "Narwhal", "Penguin", "Platypus", "Llama", "Sloth",
	"Dragon", "Dinosaur", "Octopus", "Hamster", "Ferret", "Moose", "Giraffe",
	"Panda", "Chinchilla", "Goblin", "Pixie", "Troll", "Yeti", "Alien",
	"Robot", "Zombie", "Vampire", "Godzilla", "Mothra", "KingKong", "Cthulhu",
	"CookieMonster", "Sasquatch", "Kraken", "LochNess", "Gremlin",
	"Chupacabra", "Bigfoot", "Blob", "Jabberwocky", "Hydra", "SassySquid",
	"SnarkySerpent", "DramaLizard", "PartyGhoul", "WackyWorm", "BumbleBeast",
	"GiggleGolem", "PranksterPhantom",
}

// Generate returns a new random username.
func Generate() string {
	return fmt.Sprintf("%s%s%d",
		adjectives[rand.Intn(len(adjectives))],
		animals[rand.Intn(len(animals))],
		10+rand.Intn(90))
}
