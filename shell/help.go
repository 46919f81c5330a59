package shell

import (
	"io"
)

var helpTopics = map[string]string{
	"load": "load <path> - load a state table written by yahtzeegen.\n" +
		"    SQLite and JSON files are told apart by their contents.\n" +
		"    Tables are cached by path; use `reload` to read a file again.\n" +
		"    Start with --table <path> to load one before the first command.\n",
	"ev": "ev <scorecard> [bucket] - expected remaining score of a state.\n" +
		"    <scorecard> is `empty`, `full`, a 15-character 0/1 string in category\n" +
		"    order (Ones first, Yahtzee last), or marked categories separated by commas,\n" +
		"    e.g. `ev ones,twos,chance 5`. bucket is the upper-section total, 0-63.\n",
	"round":  "round <n> [-bins b] - histogram of EVs over all states with n marked categories.\n",
	"score":  "score <category> <dice> - points a five-dice roll is worth in a category.\n",
	"sample": "sample [-n dice] - roll dice and show the chance of that exact multiset.\n",
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "load <path> - load a state table\n")
	io.WriteString(w, "reload [path] - drop a cached table and load it again\n")
	io.WriteString(w, "ev <scorecard> [bucket] - look up a state's EV\n")
	io.WriteString(w, "round <n> [-bins b] - EV histogram of states with n marks\n")
	io.WriteString(w, "score <category> <dice> - score a roll\n")
	io.WriteString(w, "sample [-n dice] - roll some dice\n")
	io.WriteString(w, "help [topic] - this message, or help on one command\n")
	io.WriteString(w, "exit\n")
}

func usageTopic(w io.Writer, topic string) {
	text, ok := helpTopics[topic]
	if !ok {
		io.WriteString(w, "There is no help text for the topic "+topic+"\n")
		return
	}
	io.WriteString(w, text)
}
