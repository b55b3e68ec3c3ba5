package usecase

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
)

// CatalogPageConfig holds the branding of the catalog page
type CatalogPageConfig struct {
	ShopName string
	ShopURL  string
}

// CatalogPageRenderer renders the self-contained searchable HTML catalog
type CatalogPageRenderer struct {
	shopName string
	shopURL  string
}

// NewCatalogPageRenderer creates a page renderer
func NewCatalogPageRenderer(config CatalogPageConfig) *CatalogPageRenderer {
	return &CatalogPageRenderer{shopName: config.ShopName, shopURL: config.ShopURL}
}

type catalogPageData struct {
	ShopName  string
	ShopURL   string
	WeekLabel string
	Sections  []domain.BrandSection
	Stats     domain.CatalogStats
}

// Render produces the complete HTML document. The page embeds its own CSS and
// JS and performs no network request.
func (r *CatalogPageRenderer) Render(catalog *domain.PartitionedCatalog, weekLabel string) ([]byte, error) {
	data := catalogPageData{
		ShopName:  r.shopName,
		ShopURL:   r.shopURL,
		WeekLabel: weekLabel,
		Sections:  catalog.Sections,
		Stats:     ComputeStats(catalog),
	}

	var buf bytes.Buffer
	if err := catalogPageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render catalog page: %w", err)
	}
	return buf.Bytes(), nil
}

var catalogPageTemplate = template.Must(template.New("catalog").Funcs(template.FuncMap{
	"price": FormatPrice,
}).Parse(`<!doctype html>
<html lang="fr">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.ShopName}} Grille Tarifaire {{.WeekLabel}}</title>
<style>
  * { box-sizing: border-box; }
  body { margin: 0; font-family: -apple-system, "Segoe UI", Roboto, Arial, sans-serif; background: #f4f6f9; color: #1f2933; }
  header { background: #1f4e79; color: #fff; padding: 24px 16px; text-align: center; }
  header h1 { margin: 0 0 6px; font-size: 1.6rem; }
  header p { margin: 0; opacity: .85; }
  header a { color: #fff; }
  main { max-width: 960px; margin: 0 auto; padding: 16px; }
  .stats { display: flex; gap: 12px; flex-wrap: wrap; margin-bottom: 16px; }
  .stat { flex: 1 1 160px; background: #fff; border-radius: 8px; padding: 12px; text-align: center; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  .stat strong { display: block; font-size: 1.4rem; color: #1f4e79; }
  .controls { background: #fff; border-radius: 8px; padding: 12px; margin-bottom: 16px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  #search { width: 100%; padding: 10px; font-size: 1rem; border: 1px solid #cbd2d9; border-radius: 6px; }
  .brands { display: flex; flex-wrap: wrap; gap: 6px; margin-top: 10px; }
  .brand-btn { border: 1px solid #2e75b6; background: #fff; color: #2e75b6; border-radius: 16px; padding: 4px 12px; cursor: pointer; }
  .brand-btn.active { background: #2e75b6; color: #fff; }
  .visible { margin-top: 8px; font-size: .9rem; color: #52606d; }
  section.brand-section { background: #fff; border-radius: 8px; margin-bottom: 16px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  section.brand-section h2 { margin: 0; padding: 10px 12px; background: #ddebf7; color: #1f4e79; font-size: 1.1rem; }
  table { width: 100%; border-collapse: collapse; }
  td { padding: 8px 12px; border-top: 1px solid #e4e7eb; }
  td.price { text-align: right; font-weight: bold; color: #375623; white-space: nowrap; }
  .empty { text-align: center; padding: 32px; color: #7b8794; }
  footer { text-align: center; font-size: .8rem; color: #7b8794; padding: 16px; }
</style>
</head>
<body>
<header>
  <h1>{{.ShopName}} Grille Tarifaire {{.WeekLabel}}</h1>
  <p>Semaine {{.WeekLabel}} &middot; <span id="total-count">{{.Stats.ProductCount}}</span> produits{{if .ShopURL}} &middot; <a href="{{.ShopURL}}">{{.ShopURL}}</a>{{end}}</p>
</header>
<main>
  <div class="stats">
    <div class="stat"><strong id="stat-products">{{.Stats.ProductCount}}</strong>produits</div>
    <div class="stat"><strong id="stat-brands">{{.Stats.BrandCount}}</strong>marques</div>
    <div class="stat"><strong id="stat-average">{{.Stats.AveragePrice}}€</strong>prix moyen HT</div>
  </div>
  <div class="controls">
    <input id="search" type="search" placeholder="Rechercher un produit..." autocomplete="off">
    <div class="brands">
      <button type="button" class="brand-btn active" data-brand="all">Toutes les marques</button>
      {{- range .Sections}}
      <button type="button" class="brand-btn" data-brand="{{.Brand}}">{{.Brand}}</button>
      {{- end}}
    </div>
    <div class="visible"><span id="visible-count">{{.Stats.ProductCount}}</span> produit(s) affiché(s)</div>
  </div>
  {{- range .Sections}}
  <section class="brand-section" data-brand="{{.Brand}}">
    <h2>{{.Brand}}</h2>
    <table>
      {{- range .Items}}
      <tr class="product-row" data-name="{{.Name}}"><td>{{.Name}}</td><td class="price">{{price .Price}}</td></tr>
      {{- end}}
    </table>
  </section>
  {{- else}}
  <p class="empty">Aucun produit pour cette semaine.</p>
  {{- end}}
</main>
<footer>Prix HT, hors frais de port. Grille {{.WeekLabel}}.</footer>
<script>
(function () {
  var search = document.getElementById('search');
  var counter = document.getElementById('visible-count');
  var buttons = Array.prototype.slice.call(document.querySelectorAll('.brand-btn'));
  var sections = Array.prototype.slice.call(document.querySelectorAll('section.brand-section'));
  var selected = 'all';

  function apply() {
    var term = search.value.toLowerCase();
    var visible = 0;
    sections.forEach(function (section) {
      var brandOk = selected === 'all' || section.getAttribute('data-brand') === selected;
      var shownInSection = 0;
      section.querySelectorAll('.product-row').forEach(function (row) {
        var name = (row.getAttribute('data-name') || '').toLowerCase();
        var show = brandOk && (term === '' || name.indexOf(term) !== -1);
        row.style.display = show ? '' : 'none';
        if (show) { shownInSection++; }
      });
      section.style.display = brandOk && shownInSection > 0 ? '' : 'none';
      visible += shownInSection;
    });
    counter.textContent = visible;
  }

  buttons.forEach(function (btn) {
    btn.addEventListener('click', function () {
      selected = btn.getAttribute('data-brand');
      buttons.forEach(function (b) { b.classList.toggle('active', b === btn); });
      apply();
    });
  });
  search.addEventListener('input', apply);
  apply();
})();
</script>
</body>
</html>
`))
