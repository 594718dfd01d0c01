package templating

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// aliasFile is the on-disk shape of an alias table extension:
//
//	aliases:
//	  - token: "{cliente_apelido}"
//	    variable: cliente_nome
//	    description: Apelido do cliente
type aliasFile struct {
	Aliases []Alias `yaml:"aliases"`
}

// LoadAliases reads extra alias rows from a YAML file.
func LoadAliases(path string) ([]Alias, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	return ParseAliases(raw)
}

// ParseAliases decodes alias rows from YAML.
func ParseAliases(raw []byte) ([]Alias, error) {
	var f aliasFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse alias file: %w", err)
	}
	for i := range f.Aliases {
		if f.Aliases[i].Vocabulary == "" {
			f.Aliases[i].Vocabulary = vocabularyOf(f.Aliases[i].Token)
		}
	}
	return f.Aliases, nil
}

// LoadVariables reads a flat variable table from YAML (JSON is accepted too,
// being a subset).
func LoadVariables(path string) (Variables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variables file: %w", err)
	}
	vars := Variables{}
	if err := yaml.Unmarshal(raw, &vars); err != nil {
		return nil, fmt.Errorf("parse variables file: %w", err)
	}
	return vars, nil
}

func vocabularyOf(token string) Vocabulary {
	if len(token) > 1 && token[1] == '{' {
		return VocabularyDotted
	}
	return VocabularySnake
}
