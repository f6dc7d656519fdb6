// Package geo serves the country -> state -> city cascade used by the user
// form.
package geo

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Country struct {
	ISOCode string `json:"isoCode" yaml:"iso"`
	Name    string `json:"name" yaml:"name"`
}

type State struct {
	ISOCode     string `json:"isoCode" yaml:"iso"`
	CountryCode string `json:"countryCode" yaml:"-"`
	Name        string `json:"name" yaml:"name"`
}

type City struct {
	Name        string `json:"name"`
	StateCode   string `json:"stateCode"`
	CountryCode string `json:"countryCode"`
}

// Directory is the lookup surface for the cascade. Unknown codes yield empty
// lists.
type Directory interface {
	Countries() []Country
	StatesOf(country string) []State
	CitiesOf(country, state string) []City
}

//go:embed data/world.yaml
var worldYAML []byte

type document struct {
	Countries []struct {
		Country `yaml:",inline"`
		States  []struct {
			State  `yaml:",inline"`
			Cities []string `yaml:"cities"`
		} `yaml:"states"`
	} `yaml:"countries"`
}

// StaticDirectory is an in-memory Directory loaded once.
type StaticDirectory struct {
	countries []Country
	states    map[string][]State
	cities    map[string][]City
}

// LoadYAML decodes a dataset in the embedded layout.
func LoadYAML(r io.Reader) (*StaticDirectory, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode geo dataset: %w", err)
	}

	dir := &StaticDirectory{
		states: make(map[string][]State),
		cities: make(map[string][]City),
	}
	for _, c := range doc.Countries {
		code := strings.ToUpper(c.ISOCode)
		if code == "" {
			return nil, fmt.Errorf("country %q has no iso code", c.Name)
		}
		dir.countries = append(dir.countries, Country{ISOCode: code, Name: c.Name})
		for _, s := range c.States {
			state := State{ISOCode: strings.ToUpper(s.ISOCode), CountryCode: code, Name: s.Name}
			dir.states[code] = append(dir.states[code], state)
			key := cityKey(code, state.ISOCode)
			for _, name := range s.Cities {
				dir.cities[key] = append(dir.cities[key], City{Name: name, StateCode: state.ISOCode, CountryCode: code})
			}
		}
	}
	sort.Slice(dir.countries, func(i, j int) bool { return dir.countries[i].Name < dir.countries[j].Name })
	return dir, nil
}

// Default returns the embedded dataset.
func Default() *StaticDirectory {
	dir, err := LoadYAML(bytes.NewReader(worldYAML))
	if err != nil {
		panic(err)
	}
	return dir
}

func (d *StaticDirectory) Countries() []Country {
	return append([]Country(nil), d.countries...)
}

func (d *StaticDirectory) StatesOf(country string) []State {
	return append([]State(nil), d.states[strings.ToUpper(country)]...)
}

func (d *StaticDirectory) CitiesOf(country, state string) []City {
	return append([]City(nil), d.cities[cityKey(strings.ToUpper(country), strings.ToUpper(state))]...)
}

func cityKey(country, state string) string {
	return country + "/" + state
}
