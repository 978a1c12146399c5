package packing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tripwise/internal/models"
	"tripwise/internal/testdb"
	"tripwise/internal/textgen"
	"tripwise/internal/weather"
)

var tripStart = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func sample(day, hour int, feels, rain float64) weather.Sample {
	return weather.Sample{
		Time:          tripStart.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour),
		FeelsLike:     feels,
		RainMM:        rain,
		ConditionCode: 800,
	}
}

func setup(t *testing.T, days int) (*gorm.DB, models.Trip) {
	db := testdb.Open(t)
	u := testdb.User(t, db, "a@example.com", false)
	return db, testdb.Trip(t, db, u.ID, "Paris", tripStart, days)
}

func items(t *testing.T, db *gorm.DB, tripID uint) map[string]models.PackingListItem {
	var rows []models.PackingListItem
	require.NoError(t, db.Where("trip_id = ?", tripID).Find(&rows).Error)
	out := make(map[string]models.PackingListItem, len(rows))
	for _, r := range rows {
		out[r.Category+"/"+r.Name] = r
	}
	require.Len(t, out, len(rows), "duplicate (category, name) rows")
	return out
}

func TestBaselineClothingScalesWithDuration(t *testing.T) {
	db, trip := setup(t, 5)
	require.NoError(t, GenerateBaseline(db, trip, nil))

	got := items(t, db, trip.ID)
	assert.Equal(t, 5, got["Clothing/T-shirt"].Quantity)
	assert.Equal(t, 5, got["Clothing/Underwear"].Quantity)
	assert.Equal(t, 5, got["Clothing/Socks"].Quantity)
	assert.Equal(t, 3, got["Clothing/Pants"].Quantity)
	assert.True(t, got["Documents/Passport"].MustHave)
	assert.True(t, got["Documents/Passport"].IsAutoGenerated)
	assert.False(t, got["Toiletries/Shampoo"].MustHave)
	assert.Len(t, got, len(essentials)+4)
}

func TestBaselineIsIdempotent(t *testing.T) {
	db, trip := setup(t, 3)
	samples := []weather.Sample{sample(0, 9, 50, 1.2)}

	require.NoError(t, GenerateBaseline(db, trip, samples))
	first := items(t, db, trip.ID)
	require.NoError(t, GenerateBaseline(db, trip, samples))
	second := items(t, db, trip.ID)

	require.Equal(t, len(first), len(second))
	for key, item := range first {
		assert.Equal(t, item.Quantity, second[key].Quantity, key)
		assert.Equal(t, item.ID, second[key].ID, key)
	}
}

func TestBaselineColdAndHotTogether(t *testing.T) {
	db, trip := setup(t, 3)
	samples := []weather.Sample{
		sample(0, 6, 55, 0),
		sample(1, 15, 80, 0),
	}
	require.NoError(t, GenerateBaseline(db, trip, samples))

	got := items(t, db, trip.ID)
	assert.Contains(t, got, "Clothing/Warm Jacket")
	assert.Contains(t, got, "Clothing/Thermal Underwear")
	assert.Contains(t, got, "Toiletries/Sunscreen")
	assert.Contains(t, got, "Clothing/Shorts")
	assert.NotContains(t, got, "Miscellaneous/Umbrella")
}

func TestBaselineIgnoresSamplesOutsideTrip(t *testing.T) {
	db, trip := setup(t, 2)
	samples := []weather.Sample{
		sample(-1, 12, 30, 5),
		sample(0, 12, 65, 0),
		sample(2, 12, 95, 0),
	}
	require.NoError(t, GenerateBaseline(db, trip, samples))

	got := items(t, db, trip.ID)
	assert.NotContains(t, got, "Clothing/Warm Jacket")
	assert.NotContains(t, got, "Clothing/Shorts")
	assert.NotContains(t, got, "Miscellaneous/Umbrella")
}

func TestBaselineRain(t *testing.T) {
	db, trip := setup(t, 2)
	require.NoError(t, GenerateBaseline(db, trip, []weather.Sample{sample(1, 3, 65, 0.3)}))

	got := items(t, db, trip.ID)
	assert.Contains(t, got, "Miscellaneous/Umbrella")
	assert.Contains(t, got, "Clothing/Rain Jacket")
	assert.Contains(t, got, "Clothing/Waterproof Shoes")
}

func TestClothingCounts(t *testing.T) {
	assert.Equal(t, 1, ClothingCounts(0)["Pants"])
	assert.Equal(t, 1, ClothingCounts(1)["Pants"])
	assert.Equal(t, 2, ClothingCounts(2)["Pants"])
	assert.Equal(t, 4, ClothingCounts(7)["Pants"])
	assert.Equal(t, 7, ClothingCounts(7)["Socks"])
}

func TestSyncRaisesZeroQuantity(t *testing.T) {
	db, trip := setup(t, 2)
	existing := models.PackingListItem{TripID: trip.ID, Name: "Jeans", Category: models.CategoryClothing, Quantity: 1, IsPacked: true}
	require.NoError(t, db.Create(&existing).Error)
	require.NoError(t, db.Model(&existing).Update("quantity", 0).Error)

	require.NoError(t, SyncOutfitItems(db, trip.ID, []string{"Jeans"}))

	got := items(t, db, trip.ID)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got["Clothing/Jeans"].Quantity)
	assert.True(t, got["Clothing/Jeans"].IsPacked)
	assert.Equal(t, existing.ID, got["Clothing/Jeans"].ID)
}

func TestSyncIsIdempotent(t *testing.T) {
	db, trip := setup(t, 2)
	high := models.PackingListItem{TripID: trip.ID, Name: "Sneakers", Category: models.CategoryClothing, Quantity: 3}
	require.NoError(t, db.Create(&high).Error)

	names := []string{"Warm Jacket", "Jeans", " Jeans ", "Sneakers", ""}
	require.NoError(t, SyncOutfitItems(db, trip.ID, names))
	require.NoError(t, SyncOutfitItems(db, trip.ID, names))

	got := items(t, db, trip.ID)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got["Clothing/Warm Jacket"].Quantity)
	assert.True(t, got["Clothing/Warm Jacket"].IsAutoGenerated)
	assert.Equal(t, 1, got["Clothing/Jeans"].Quantity)
	assert.Equal(t, 3, got["Clothing/Sneakers"].Quantity)
	assert.False(t, got["Clothing/Sneakers"].IsAutoGenerated)
}

func TestSyncTrip(t *testing.T) {
	db, trip := setup(t, 2)
	other := testdb.Trip(t, db, trip.UserID, "Rome", tripStart, 2)

	for i, name := range []string{"Scarf", "Boots"} {
		rec := models.OutfitRecommendation{
			TripID: trip.ID,
			Day:    tripStart.AddDate(0, 0, i),
			Items:  []models.OutfitItem{{Name: name, Category: models.OutfitOther}},
		}
		require.NoError(t, db.Create(&rec).Error)
	}
	otherRec := models.OutfitRecommendation{
		TripID: other.ID,
		Day:    tripStart,
		Items:  []models.OutfitItem{{Name: "Toga", Category: models.OutfitOther}},
	}
	require.NoError(t, db.Create(&otherRec).Error)

	require.NoError(t, SyncTrip(db, trip.ID))
	require.NoError(t, SyncTrip(db, trip.ID))

	got := items(t, db, trip.ID)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "Clothing/Scarf")
	assert.Contains(t, got, "Clothing/Boots")
}

func TestItemOperations(t *testing.T) {
	db, trip := setup(t, 2)

	item, err := AddItem(db, trip.ID, " Camera ", "Electronics", 0, true)
	require.NoError(t, err)
	assert.Equal(t, "Camera", item.Name)
	assert.Equal(t, 1, item.Quantity)
	assert.False(t, item.IsAutoGenerated)

	_, err = AddItem(db, trip.ID, "Camera", "Electronics", 2, false)
	assert.ErrorIs(t, err, ErrDuplicateItem)
	_, err = AddItem(db, trip.ID, "", "Electronics", 1, false)
	assert.ErrorIs(t, err, ErrInvalidItem)

	toggled, err := TogglePacked(db, trip.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsPacked)

	up, err := ChangeQuantity(db, trip.ID, item.ID, Increase)
	require.NoError(t, err)
	assert.Equal(t, 2, up.Quantity)
	assert.True(t, CanDecrease(up))

	down, err := ChangeQuantity(db, trip.ID, item.ID, Decrease)
	require.NoError(t, err)
	assert.Equal(t, 1, down.Quantity)
	down, err = ChangeQuantity(db, trip.ID, item.ID, Decrease)
	require.NoError(t, err)
	assert.Equal(t, 1, down.Quantity)
	assert.False(t, CanDecrease(down))

	_, err = ChangeQuantity(db, trip.ID, item.ID, "double")
	assert.ErrorIs(t, err, ErrInvalidAction)

	other := testdb.Trip(t, db, trip.UserID, "Rome", tripStart, 1)
	_, err = TogglePacked(db, other.ID, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, DeleteItem(db, other.ID, item.ID), ErrItemNotFound)

	require.NoError(t, DeleteItem(db, trip.ID, item.ID))
	assert.Empty(t, items(t, db, trip.ID))
}

func TestLoadGroupsAndCountsProgress(t *testing.T) {
	db, trip := setup(t, 2)
	rows := []models.PackingListItem{
		{TripID: trip.ID, Name: "Socks", Category: "Clothing", Quantity: 2, IsPacked: true},
		{TripID: trip.ID, Name: "Passport", Category: "Documents", Quantity: 1},
		{TripID: trip.ID, Name: "Jeans", Category: "Clothing", Quantity: 1},
		{TripID: trip.ID, Name: "Hotel Confirmation", Category: "Documents", Quantity: 1, IsPacked: true},
	}
	require.NoError(t, db.Create(&rows).Error)

	list, err := Load(db, trip.ID)
	require.NoError(t, err)

	require.Len(t, list.Categories, 2)
	assert.Equal(t, "Clothing", list.Categories[0].Category)
	assert.Equal(t, "Jeans", list.Categories[0].Items[0].Name)
	assert.Equal(t, 1, list.Categories[0].Packed)
	assert.Equal(t, 2, list.Categories[1].Total)
	assert.Equal(t, 2, list.Packed)
	assert.Equal(t, 4, list.Total)
	assert.Equal(t, 50, list.Percent)
}

type fakeText struct {
	text string
	err  error
}

func (f fakeText) Generate(ctx context.Context, prompt string, opts textgen.Options) (string, error) {
	return f.text, f.err
}

type recordingNotifier struct {
	mu   sync.Mutex
	apis []string
}

func (n *recordingNotifier) APIFailure(api string, cause error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.apis = append(n.apis, api)
}

func TestParseSmartList(t *testing.T) {
	text := "Here you go:\n```json\n{\n  \"toiletries\": [\"Toothbrush\", {\"name\": \"Razor\", \"quantity\": 2}],\n" +
		"  \"CLOTHING\": [\"Jeans\"],\n  \"first aid\": [{\"name\": \" \"}, \"Bandages\", 3]\n}\n```\nEnjoy!"

	lists, err := ParseSmartList(text)
	require.NoError(t, err)

	assert.Equal(t, []SmartItem{{Name: "Toothbrush", Quantity: 1}, {Name: "Razor", Quantity: 2}}, lists["Toiletries"])
	assert.Equal(t, []SmartItem{{Name: "Bandages", Quantity: 1}}, lists["First Aid"])
	assert.NotContains(t, lists, "Clothing")

	_, err = ParseSmartList("no json here")
	assert.ErrorIs(t, err, ErrSmartListFormat)
	_, err = ParseSmartList(`{"toiletries": "toothbrush"}`)
	assert.ErrorIs(t, err, ErrSmartListFormat)
}

func TestSmartGenerateReplacesGeneratedItems(t *testing.T) {
	db, trip := setup(t, 3)
	require.NoError(t, GenerateBaseline(db, trip, nil))
	_, err := AddItem(db, trip.ID, "Kindle", models.CategoryElectronics, 1, false)
	require.NoError(t, err)
	rec := models.OutfitRecommendation{
		TripID: trip.ID,
		Day:    tripStart,
		Items:  []models.OutfitItem{{Name: "Linen Shirt", Category: models.OutfitTop}},
	}
	require.NoError(t, db.Create(&rec).Error)

	text := `{"Toiletries": ["Sunscreen"], "electronics": [{"name": "Camera", "quantity": 1}], "Clothing": ["Kilt"]}`
	notifier := &recordingNotifier{}
	g := NewSmartGenerator(db, fakeText{text: text}, notifier)

	res, err := g.Generate(context.Background(), trip, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SmartListCompleted, res.Status)

	got := items(t, db, trip.ID)
	assert.Contains(t, got, "Toiletries/Sunscreen")
	assert.NotContains(t, got, "Toiletries/Toothbrush")
	assert.Contains(t, got, "Electronics/Camera")
	assert.Contains(t, got, "Electronics/Kindle")
	assert.NotContains(t, got, "Electronics/Phone Charger")
	assert.NotContains(t, got, "Miscellaneous/Wallet")
	assert.Contains(t, got, "Documents/Passport")
	assert.Contains(t, got, "Clothing/T-shirt")
	assert.Contains(t, got, "Clothing/Linen Shirt")
	assert.NotContains(t, got, "Clothing/Kilt")
	assert.Empty(t, notifier.apis)

	var run models.SmartListRun
	require.NoError(t, db.Where("trip_id = ?", trip.ID).First(&run).Error)
	assert.Equal(t, models.SmartListCompleted, run.Status)
	assert.Contains(t, string(run.Content), "Sunscreen")
}

func TestSmartGenerateFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		text     fakeText
		notified bool
	}{
		{"text generation fails", fakeText{err: errors.New("timeout")}, true},
		{"response is not json", fakeText{text: "Pack light!"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, trip := setup(t, 4)
			notifier := &recordingNotifier{}
			g := NewSmartGenerator(db, tt.text, notifier)

			res, err := g.Generate(context.Background(), trip, nil, []weather.Sample{sample(0, 12, 40, 0)})
			require.NoError(t, err)
			assert.Equal(t, models.SmartListFallback, res.Status)
			assert.NotEmpty(t, res.Error)

			got := items(t, db, trip.ID)
			assert.Equal(t, 4, got["Clothing/Socks"].Quantity)
			assert.Contains(t, got, "Clothing/Warm Jacket")

			if tt.notified {
				assert.Equal(t, []string{"Text generation"}, notifier.apis)
			} else {
				assert.Empty(t, notifier.apis)
			}

			var run models.SmartListRun
			require.NoError(t, db.Where("trip_id = ?", trip.ID).First(&run).Error)
			assert.Equal(t, models.SmartListFallback, run.Status)
		})
	}
}

func TestSmartPrompt(t *testing.T) {
	trip := models.Trip{Destination: "Oslo", StartDate: tripStart, EndDate: tripStart.AddDate(0, 0, 2)}
	days := []weather.DailySummary{{Description: "Snow", Temperature: 28}}

	p := SmartPrompt(trip, days)
	assert.Contains(t, p, "3-day trip to Oslo")
	assert.Contains(t, p, "Snow at 28°F")
	assert.Contains(t, SmartPrompt(trip, nil), "unknown")
}
