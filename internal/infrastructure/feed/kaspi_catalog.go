// Package feed construye la lista de precios XML (kaspi_catalog) que Kaspi
// descarga periódicamente desde la URL configurada en el panel del vendedor.
package feed

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
)

const (
	NamespaceKaspi  = "kaspiShopping"
	NamespaceXSI    = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaLocation  = "kaspiShopping http://kaspi.kz/kaspishopping.xsd"
	DefaultStoreID  = "PP1"
	dateLayout      = "2006-01-02 15:04"
	attrCatalogDate = "date"
)

var _ ports.PriceFeedBuilder = (*CatalogBuilder)(nil)

// CatalogBuilder implementa ports.PriceFeedBuilder con etree.
type CatalogBuilder struct{}

// NewCatalogBuilder construye el builder.
func NewCatalogBuilder() *CatalogBuilder { return &CatalogBuilder{} }

// Build genera el XML y su ETag. El ETag no depende de la fecha de generación:
// dos feeds con las mismas ofertas comparten ETag.
func (b *CatalogBuilder) Build(in dto.PriceFeedInput) ([]byte, string, error) {
	if strings.TrimSpace(in.MerchantID) == "" {
		return nil, "", fmt.Errorf("feed: merchant_id requerido")
	}

	root := catalogElement(in)

	etag, err := etagOf(root)
	if err != nil {
		return nil, "", err
	}

	if !in.GeneratedAt.IsZero() {
		root.CreateAttr(attrCatalogDate, in.GeneratedAt.Format(dateLayout))
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	doc.SetRoot(root)
	doc.Indent(2)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("feed: serializar XML: %w", err)
	}
	return out, etag, nil
}

// catalogElement arma <kaspi_catalog> sin el atributo date.
func catalogElement(in dto.PriceFeedInput) *etree.Element {
	root := etree.NewElement("kaspi_catalog")
	root.CreateAttr("xmlns", NamespaceKaspi)
	root.CreateAttr("xmlns:xsi", NamespaceXSI)
	root.CreateAttr("xsi:schemaLocation", SchemaLocation)

	root.CreateElement("company").SetText(in.Company)
	root.CreateElement("merchantid").SetText(in.MerchantID)

	offers := root.CreateElement("offers")
	for _, o := range in.Offers {
		offer := offers.CreateElement("offer")
		offer.CreateAttr("sku", o.SKU)
		offer.CreateElement("model").SetText(o.Model)
		if o.Brand != "" {
			offer.CreateElement("brand").SetText(o.Brand)
		}

		avail := offer.CreateElement("availabilities")
		points := o.PickupPoints
		if len(points) == 0 {
			points = []string{DefaultStoreID}
		}
		for _, pp := range points {
			a := avail.CreateElement("availability")
			a.CreateAttr("available", yesNo(o.Available))
			a.CreateAttr("storeId", pp)
		}

		price := o.Price.StringFixed(0)
		if len(in.CityIDs) == 0 {
			offer.CreateElement("price").SetText(price)
			continue
		}
		cp := offer.CreateElement("cityprices")
		for _, city := range in.CityIDs {
			c := cp.CreateElement("cityprice")
			c.CreateAttr("cityId", city)
			c.SetText(price)
		}
	}
	return root
}

// etagOf hash SHA-256 de la forma canónica (C14N) del elemento.
func etagOf(root *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(root.Copy())
	raw, err := doc.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("feed: serializar para ETag: %w", err)
	}
	canon, err := canonicalizeXML(raw)
	if err != nil {
		return "", fmt.Errorf("feed: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canon)
	return `"` + hex.EncodeToString(sum[:]) + `"`, nil
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
