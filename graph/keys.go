package graph

import "strings"

// keyLength ist die Trunkierungsbreite für Publikations- und Journal-Schlüssel.
//
// Die Trunkierung auf 20 Zeichen ist eine bewusste Kompaktheits-Entscheidung
// mit echtem Kollisionsrisiko: zwei Publikationen oder zwei Journals, deren
// erste 20 Zeichen übereinstimmen, kollabieren auf denselben Knoten und ihre
// Kanten verschmelzen. Das Verhalten ist Teil des persistierten Formats und
// darf nicht geändert werden, ohne Export und Import gemeinsam anzufassen —
// der Import leitet dieselben Schlüssel aus den natürlichen Identitäten im
// Dokument erneut ab.
const keyLength = 20

// DrugKey liefert den Knoten-Schlüssel eines Drugs: der Name in Kleinbuchstaben.
// Zwei Drugs, deren Namen sich nur in Groß-/Kleinschreibung unterscheiden,
// kollabieren absichtlich auf denselben Knoten.
func DrugKey(name string) string {
	return strings.ToLower(name)
}

// PublicationKey liefert den Knoten-Schlüssel einer Publikation: der Titel in
// Kleinbuchstaben, abgeschnitten nach den ersten 20 Zeichen.
func PublicationKey(title string) string {
	return truncate(strings.ToLower(title), keyLength)
}

// JournalKey liefert den Knoten-Schlüssel eines Journals: der Name,
// abgeschnitten nach 20 Zeichen, Groß-/Kleinschreibung bleibt erhalten.
func JournalKey(name string) string {
	return truncate(name, keyLength)
}

// truncate schneidet s nach n Zeichen (Runen, nicht Bytes) ab.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
