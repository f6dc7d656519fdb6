package geo

// Selection is the form's current country/state/city choice.
type Selection struct {
	Country string `form:"country" json:"country"`
	State   string `form:"state" json:"state"`
	City    string `form:"city" json:"city"`
}

// Cascade applies next on top of prev. Changing the country clears state and
// city; changing the state clears city. Choices the directory does not know
// are dropped.
func Cascade(dir Directory, prev, next Selection) Selection {
	out := next
	if next.Country != prev.Country {
		out.State, out.City = "", ""
	} else if next.State != prev.State {
		out.City = ""
	}

	if out.Country != "" && !hasCountry(dir, out.Country) {
		return Selection{}
	}
	if out.State != "" && !hasState(dir, out.Country, out.State) {
		out.State, out.City = "", ""
	}
	if out.City != "" && !hasCity(dir, out.Country, out.State, out.City) {
		out.City = ""
	}
	return out
}

// Options lists what each selector may offer for a selection.
type Options struct {
	Countries []Country
	States    []State
	Cities    []City
}

func OptionsFor(dir Directory, sel Selection) Options {
	opts := Options{Countries: dir.Countries()}
	if sel.Country != "" {
		opts.States = dir.StatesOf(sel.Country)
	}
	if sel.Country != "" && sel.State != "" {
		opts.Cities = dir.CitiesOf(sel.Country, sel.State)
	}
	return opts
}

func hasCountry(dir Directory, code string) bool {
	for _, c := range dir.Countries() {
		if c.ISOCode == code {
			return true
		}
	}
	return false
}

func hasState(dir Directory, country, code string) bool {
	for _, s := range dir.StatesOf(country) {
		if s.ISOCode == code {
			return true
		}
	}
	return false
}

func hasCity(dir Directory, country, state, name string) bool {
	for _, c := range dir.CitiesOf(country, state) {
		if c.Name == name {
			return true
		}
	}
	return false
}
