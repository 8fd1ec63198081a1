// seed_cities genera el script SQL que puebla kaspi_cities (precios por ciudad del feed XML)
// a partir del catálogo de ciudades de Kaspi exportado como XML.
//
// Uso: go run ./cmd/seed_cities [ruta/cities.xml]
// Por defecto busca cities.xml en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_kaspi_cities.sql
//
// Formato esperado (UTF-8 o windows-1251):
//
//	<cities>
//	  <city id="750000000" name="Алматы" region="Алматы" active="true"/>
//	</cities>
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogue struct {
	Cities []cityXML `xml:"city"`
}

type cityXML struct {
	ID     string `xml:"id,attr"`
	Name   string `xml:"name,attr"`
	Region string `xml:"region,attr"`
	Active string `xml:"active,attr"`
}

type city struct {
	id, name, region string
	active           bool
}

func main() {
	xmlPath := "cities.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cities, err := parseCities(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_kaspi_cities.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, cities); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d ciudades\n", outPath, len(cities))
}

// parseCities lee el catálogo, descarta filas sin id o nombre y deduplica por id
// (gana la última). Resultado ordenado por id.
func parseCities(r io.Reader) ([]city, error) {
	var c catalogue
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "windows-1251", "cp1251":
			return transform.NewReader(input, charmap.Windows1251.NewDecoder()), nil
		case "iso-8859-1", "iso8859-1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}

	byID := make(map[string]city, len(c.Cities))
	for _, v := range c.Cities {
		id := strings.TrimSpace(v.ID)
		name := strings.TrimSpace(v.Name)
		if id == "" || name == "" {
			continue
		}
		byID[id] = city{
			id:     id,
			name:   name,
			region: strings.TrimSpace(v.Region),
			active: v.Active == "" || strings.EqualFold(v.Active, "true") || v.Active == "1",
		}
	}
	out := make([]city, 0, len(byID))
	for _, c := range byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out, nil
}

func writeSQL(w io.Writer, cities []city) error {
	var b strings.Builder
	b.WriteString("-- Ciudades de Kaspi para precios por ciudad (cityprices) del feed XML\n")
	b.WriteString("-- Generado por cmd/seed_cities\n\n")
	if len(cities) == 0 {
		b.WriteString("-- sin ciudades\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("INSERT INTO kaspi_cities (id, name, region, is_active) VALUES\n")
	for i, c := range cities {
		sep := ","
		if i == len(cities)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  ('%s', '%s', '%s', %t)%s\n", escapeSQL(c.id), escapeSQL(c.name), escapeSQL(c.region), c.active, sep)
	}
	b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, region = EXCLUDED.region, is_active = EXCLUDED.is_active;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
