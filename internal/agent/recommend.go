package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cafekiosk/internal/menu"
	"cafekiosk/internal/order"
)

// TimeOfDay partitions the day into fixed recommendation windows.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"   // 06:00 - 11:00
	TimeBrunch    TimeOfDay = "brunch"    // 11:00 - 14:00
	TimeAfternoon TimeOfDay = "afternoon" // 14:00 - 17:00
	TimeEvening   TimeOfDay = "evening"   // 17:00 - 21:00
	TimeNight     TimeOfDay = "night"     // 21:00 - 06:00
)

// Weather is the coarse weather signal the kiosk accepts.
type Weather string

const (
	WeatherHot    Weather = "hot"
	WeatherCold   Weather = "cold"
	WeatherRainy  Weather = "rainy"
	WeatherNormal Weather = "normal"
)

// ParseWeather maps a request string to a known weather value.
func ParseWeather(s string) (Weather, bool) {
	switch w := Weather(strings.ToLower(strings.TrimSpace(s))); w {
	case WeatherHot, WeatherCold, WeatherRainy, WeatherNormal:
		return w, true
	}
	return "", false
}

// Recommendation is a ranked list of menu items with a reason.
type Recommendation struct {
	Items      []menu.Item   `json:"items"`
	Reason     string        `json:"reason"`
	Confidence float64       `json:"confidence"`
	Category   menu.Category `json:"category,omitempty"`
}

// Preferences captures what a customer has told us they like.
type Preferences struct {
	Category   string   `json:"category,omitempty"`
	PriceRange [2]int   `json:"price_range,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
}

// recommendGateway is the gateway surface the recommender needs.
type recommendGateway interface {
	GenerateRecommendation(ctx context.Context, items []order.ItemRequest) (string, error)
}

// Recommender suggests menu items from time of day, weather, order history,
// and the current order's contents.
type Recommender struct {
	catalog *menu.Catalog
	store   *order.Store
	gateway recommendGateway
	log     zerolog.Logger

	timeMenus    map[TimeOfDay][]string
	weatherMenus map[Weather][]string

	now func() time.Time
}

// NewRecommender wires a recommender over the catalog, store, and gateway.
func NewRecommender(catalog *menu.Catalog, store *order.Store, gateway recommendGateway, logger zerolog.Logger) *Recommender {
	return &Recommender{
		catalog: catalog,
		store:   store,
		gateway: gateway,
		log:     logger.With().Str("component", "recommender").Logger(),
		timeMenus: map[TimeOfDay][]string{
			TimeMorning:   {"아메리카노", "크로와상", "베이글"},
			TimeBrunch:    {"샌드위치", "샐러드", "카페라떼"},
			TimeAfternoon: {"케이크", "와플", "아이스티"},
			TimeEvening:   {"파스타", "피자", "샐러드"},
			TimeNight:     {"디저트", "차", "가벼운 간식"},
		},
		weatherMenus: map[Weather][]string{
			WeatherHot:    {"아이스티", "오렌지주스", "아이스 아메리카노"},
			WeatherCold:   {"카페라떼", "핫 아메리카노", "그린티라떼"},
			WeatherRainy:  {"따뜻한 음료", "케이크", "와플"},
			WeatherNormal: {"아메리카노", "샌드위치", "샐러드"},
		},
		now: time.Now,
	}
}

// CurrentTimeOfDay maps the wall clock to a recommendation window.
func (r *Recommender) CurrentTimeOfDay() TimeOfDay {
	return timeOfDayAt(r.now())
}

func timeOfDayAt(t time.Time) TimeOfDay {
	switch hour := t.Hour(); {
	case hour >= 6 && hour < 11:
		return TimeMorning
	case hour >= 11 && hour < 14:
		return TimeBrunch
	case hour >= 14 && hour < 17:
		return TimeAfternoon
	case hour >= 17 && hour < 21:
		return TimeEvening
	default:
		return TimeNight
	}
}

// resolveNames turns candidate names into catalog items, first search match
// per name.
func (r *Recommender) resolveNames(names []string, count int) []menu.Item {
	var items []menu.Item
	for _, name := range names {
		if count > 0 && len(items) >= count {
			break
		}
		if found := r.catalog.Search(name); len(found) > 0 {
			items = append(items, found[0])
		}
	}
	return items
}

// ByTime recommends for the current (or given) recommendation window.
func (r *Recommender) ByTime(at time.Time, count int) Recommendation {
	if at.IsZero() {
		at = r.now()
	}
	window := timeOfDayAt(at)
	items := r.resolveNames(r.timeMenus[window], count)

	r.log.Info().
		Str("time_of_day", string(window)).
		Int("items", len(items)).
		Msg("time-based recommendation")

	return Recommendation{
		Items:      items,
		Reason:     fmt.Sprintf("%s 시간대에 인기 있는 메뉴입니다", window),
		Confidence: 0.8,
	}
}

// ByWeather recommends for a weather condition.
func (r *Recommender) ByWeather(weather Weather, count int) Recommendation {
	items := r.resolveNames(r.weatherMenus[weather], count)

	r.log.Info().
		Str("weather", string(weather)).
		Int("items", len(items)).
		Msg("weather-based recommendation")

	return Recommendation{
		Items:      items,
		Reason:     fmt.Sprintf("%s 날씨에 어울리는 메뉴입니다", weather),
		Confidence: 0.75,
	}
}

// Popular recommends the most-ordered items, optionally filtered by
// category. Rankings come from completed order history.
func (r *Recommender) Popular(count int, category menu.Category) Recommendation {
	popular := r.store.PopularItems(count)

	var items []menu.Item
	for _, p := range popular {
		mi, ok := r.catalog.Lookup(p.MenuName)
		if !ok {
			continue
		}
		if category != "" && mi.Category != category {
			continue
		}
		items = append(items, mi)
	}
	if count > 0 && len(items) > count {
		items = items[:count]
	}

	r.log.Info().
		Int("items", len(items)).
		Str("category", string(category)).
		Msg("popularity recommendation")

	return Recommendation{
		Items:      items,
		Reason:     "고객들이 가장 많이 주문한 메뉴입니다",
		Confidence: 0.9,
		Category:   category,
	}
}

// Complementary asks the model what pairs well with the current order, then
// resolves any catalog names mentioned in its answer. Gateway failure falls
// back to the popularity ranking.
func (r *Recommender) Complementary(ctx context.Context, orderItems []order.ItemRequest, count int) Recommendation {
	text, err := r.gateway.GenerateRecommendation(ctx, orderItems)
	if err != nil {
		r.log.Error().Err(err).Msg("complementary recommendation failed")
		return r.Popular(count, "")
	}

	var items []menu.Item
	for _, name := range r.catalog.AllNames() {
		if len(items) >= count {
			break
		}
		if strings.Contains(text, name) {
			if mi, ok := r.catalog.Lookup(name); ok {
				items = append(items, mi)
			}
		}
	}

	r.log.Info().
		Int("order_items", len(orderItems)).
		Int("recommended", len(items)).
		Msg("complementary recommendation generated")

	return Recommendation{
		Items:      items,
		Reason:     text,
		Confidence: 0.85,
	}
}

// ByCategory lists a category's items, sorted by price or by real order
// popularity.
func (r *Recommender) ByCategory(category menu.Category, count int, sortBy string) Recommendation {
	items := r.catalog.ByCategory(category)

	var reason string
	switch sortBy {
	case "price_low":
		sortItemsByPrice(items, false)
		reason = fmt.Sprintf("%s 카테고리의 가성비 좋은 메뉴", category)
	case "price_high":
		sortItemsByPrice(items, true)
		reason = fmt.Sprintf("%s 카테고리의 프리미엄 메뉴", category)
	default:
		r.sortItemsByPopularity(items)
		reason = fmt.Sprintf("%s 카테고리의 인기 메뉴", category)
	}

	if count > 0 && len(items) > count {
		items = items[:count]
	}

	r.log.Info().
		Str("category", string(category)).
		Str("sort_by", sortBy).
		Int("items", len(items)).
		Msg("category recommendation")

	return Recommendation{
		Items:      items,
		Reason:     reason,
		Confidence: 0.85,
		Category:   category,
	}
}

func sortItemsByPrice(items []menu.Item, descending bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if descending {
			return items[i].BasePrice > items[j].BasePrice
		}
		return items[i].BasePrice < items[j].BasePrice
	})
}

// sortItemsByPopularity reorders items by completed-order quantity, keeping
// catalog order for items never ordered.
func (r *Recommender) sortItemsByPopularity(items []menu.Item) {
	rank := make(map[string]int)
	for _, p := range r.store.PopularItems(0) {
		rank[p.MenuName] = p.OrderCount
	}
	sort.SliceStable(items, func(i, j int) bool {
		return rank[items[i].Name] > rank[items[j].Name]
	})
}

// ByPreference recommends from declared preferences: favorite category,
// price range, and keywords.
func (r *Recommender) ByPreference(prefs Preferences, count int) Recommendation {
	var (
		items       []menu.Item
		reasonParts []string
	)

	if prefs.Category != "" {
		category := menu.Category(prefs.Category)
		catItems := r.catalog.ByCategory(category)
		if count > 0 && len(catItems) > count {
			catItems = catItems[:count]
		}
		items = append(items, catItems...)
		reasonParts = append(reasonParts, fmt.Sprintf("%s 카테고리를 선호하시는군요", category))
	}

	if prefs.PriceRange[1] > 0 {
		minPrice, maxPrice := prefs.PriceRange[0], prefs.PriceRange[1]
		var filtered []menu.Item
		for _, it := range items {
			if it.BasePrice >= minPrice && it.BasePrice <= maxPrice {
				filtered = append(filtered, it)
			}
		}
		if len(filtered) > 0 {
			items = filtered
			reasonParts = append(reasonParts, fmt.Sprintf("%d-%d원 가격대", minPrice, maxPrice))
		}
	}

	for _, keyword := range prefs.Keywords {
		found := r.catalog.Search(keyword)
		if len(found) > 2 {
			found = found[:2]
		}
		items = append(items, found...)
		reasonParts = append(reasonParts, fmt.Sprintf("'%s' 관련 메뉴", keyword))
	}

	// dedupe by name, keeping first encounter
	seen := make(map[string]struct{}, len(items))
	unique := items[:0]
	for _, it := range items {
		if _, ok := seen[it.Name]; ok {
			continue
		}
		seen[it.Name] = struct{}{}
		unique = append(unique, it)
	}
	if count > 0 && len(unique) > count {
		unique = unique[:count]
	}

	reason := "고객님의 선호도에 맞춰 " + strings.Join(reasonParts, ", ") + "를 추천드립니다"

	r.log.Info().
		Int("items", len(unique)).
		Msg("preference recommendation")

	return Recommendation{
		Items:      unique,
		Reason:     reason,
		Confidence: 0.8,
	}
}

// Combos returns fixed pairings: a coffee with the first dessert, and the
// first meal with the first beverage.
func (r *Recommender) Combos(count int) []Recommendation {
	var combos []Recommendation

	beverages := r.catalog.ByCategory(menu.CategoryBeverage)
	desserts := r.catalog.ByCategory(menu.CategoryDessert)
	meals := r.catalog.ByCategory(menu.CategoryMeal)

	var coffee *menu.Item
	for i := range beverages {
		if strings.Contains(beverages[i].Name, "커피") || strings.Contains(beverages[i].Name, "라떼") {
			coffee = &beverages[i]
			break
		}
	}
	if coffee != nil && len(desserts) > 0 {
		combos = append(combos, Recommendation{
			Items:      []menu.Item{*coffee, desserts[0]},
			Reason:     "커피와 디저트의 완벽한 조합",
			Confidence: 0.9,
		})
	}

	if len(meals) > 0 && len(beverages) > 0 {
		combos = append(combos, Recommendation{
			Items:      []menu.Item{meals[0], beverages[0]},
			Reason:     "식사와 함께 즐기기 좋은 음료",
			Confidence: 0.85,
		})
	}

	r.log.Info().Int("count", len(combos)).Msg("combo recommendations")

	if count > 0 && len(combos) > count {
		combos = combos[:count]
	}
	return combos
}
