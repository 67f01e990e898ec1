package emotion

// TableVersion identifies the revision of the keyword table below.
// Bump it whenever keywords or weights change so stored sessions can be
// traced back to the table that scored them.
const TableVersion = 1

// category is one row of the keyword table.
type category struct {
	label    Label
	weight   float64
	keywords []string
}

// table is the fixed, ordered keyword table. Order matters: ties in
// Classify are broken in favour of the earlier row. Keywords are lower-case.
var table = [...]category{
	{
		label:  LabelAnxiety,
		weight: 1.0,
		keywords: []string{
			"anxious", "anxiety", "worried", "worry", "nervous", "panic", "fear",
			"scared", "dread", "apprehensive", "restless", "tense", "overwhelmed",
			"phobia", "uneasy", "on edge", "heart racing", "can't breathe", "hyperventilate",
		},
	},
	{
		label:  LabelDepression,
		weight: 1.0,
		keywords: []string{
			"depressed", "depression", "hopeless", "worthless", "empty", "sad", "sadness",
			"numb", "low", "grief", "melancholy", "crying", "tears", "dark thoughts",
			"no point", "meaningless", "can't feel", "feel nothing", "no energy",
			"lost interest", "don't enjoy anything", "no motivation",
		},
	},
	{
		label:  LabelStress,
		weight: 0.9,
		keywords: []string{
			"stressed", "stress", "pressure", "burden", "loaded", "exhausted", "drained",
			"too much", "can't cope", "burned out", "burnout", "deadline", "workload",
			"no time", "falling behind", "overwhelmed", "responsibilities",
		},
	},
	{
		label:  LabelLoneliness,
		weight: 0.9,
		keywords: []string{
			"lonely", "alone", "isolated", "no one", "disconnected", "left out",
			"invisible", "nobody cares", "no friends", "abandoned", "rejected",
			"socially isolated", "don't belong", "excluded",
		},
	},
	{
		label:  LabelAnger,
		weight: 0.8,
		keywords: []string{
			"angry", "anger", "furious", "rage", "irritated", "frustrated", "annoyed",
			"mad", "resentment", "bitter", "hatred", "hostile", "aggressive", "outraged",
			"livid", "can't stand",
		},
	},
	{
		label:  LabelTrauma,
		weight: 1.0,
		keywords: []string{
			"trauma", "traumatic", "flashback", "nightmare", "ptsd", "abuse", "violated",
			"assault", "attacked", "harassed", "victim", "can't forget", "triggers",
			"haunted", "intrusive thoughts", "reliving",
		},
	},
	{
		label:  LabelNeutral,
		weight: 0.4,
		keywords: []string{
			"okay", "fine", "alright", "normal", "average", "so-so", "not bad",
			"managing", "getting by", "okay i guess", "just existing",
		},
	},
	{
		label:  LabelPositive,
		weight: 0.7,
		keywords: []string{
			"happy", "joy", "excited", "grateful", "hopeful", "better", "improving",
			"good", "great", "wonderful", "positive", "motivated", "content", "peaceful",
			"calm", "relieved", "proud", "accomplished", "energized", "thriving",
		},
	},
}

// Labels returns every label in table order.
func Labels() []Label {
	out := make([]Label, len(table))
	for i, c := range table {
		out[i] = c.label
	}
	return out
}

// Keywords returns a copy of the keyword list for label, or nil if the label
// is not in the table.
func Keywords(label Label) []string {
	for _, c := range table {
		if c.label == label {
			return append([]string(nil), c.keywords...)
		}
	}
	return nil
}
