package agents

import "github.com/talgya/village-sim/internal/rng"

var maleNames = []string{
	"Aldric", "Bran", "Cedric", "Darian", "Edwin", "Finn", "Gareth", "Hadric",
	"Ivor", "Jasper", "Kael", "Leoric", "Magnus", "Nolan", "Oswin", "Perin",
	"Quentin", "Rodric", "Silas", "Theron", "Ulric", "Voss", "Wren", "Yorick",
	"Zander", "Alden", "Beric", "Corwin", "Dorian", "Elric", "Faron", "Gideon",
	"Hugo", "Ivan", "Jorin", "Keldan", "Liam", "Merric", "Niall", "Orin",
}

var femaleNames = []string{
	"Adara", "Brynn", "Celia", "Dara", "Elara", "Fiona", "Gwen", "Helena",
	"Iris", "Jessa", "Kira", "Lyra", "Maren", "Nessa", "Olwen", "Petra",
	"Quinn", "Rhea", "Seren", "Thea", "Una", "Vera", "Willa", "Yara",
	"Zara", "Anya", "Blythe", "Clara", "Della", "Eva", "Freya", "Hana",
	"Isla", "Juno", "Keira", "Luna", "Mira", "Nell", "Opal", "Rowan",
}

// RandomName draws a name appropriate to the sex.
func RandomName(sex Sex, r *rng.Source) string {
	if sex == SexMale {
		return rng.Choice(r, maleNames)
	}
	return rng.Choice(r, femaleNames)
}
