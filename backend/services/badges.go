package services

// UserStats holds the derived counters the badge predicates run against.
type UserStats struct {
	Books    int
	Pages    int
	Attempts int
	Perfect  int
	Approved int
	Streak   int
}

// BadgeDef describes one badge in the fixed catalogue.
type BadgeDef struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Desc   string `json:"desc"`
	Earned func(UserStats) bool `json:"-"`
}

// Badges is the full catalogue. Order matters: CheckBadges returns newly
// earned badges in definition order. Not extensible at runtime.
var Badges = []BadgeDef{
	{Key: "first_book", Name: "Birinchi kitob", Icon: "📖", Desc: "Birinchi kitobingizni o'qib tugatdingiz",
		Earned: func(s UserStats) bool { return s.Books >= 1 }},
	{Key: "bookworm_5", Name: "Kitob qurti", Icon: "🐛", Desc: "5 ta kitob o'qidingiz",
		Earned: func(s UserStats) bool { return s.Books >= 5 }},
	{Key: "bookworm_10", Name: "Kitob ishqibozi", Icon: "📚", Desc: "10 ta kitob o'qidingiz",
		Earned: func(s UserStats) bool { return s.Books >= 10 }},
	{Key: "bookworm_25", Name: "Kitob ustasi", Icon: "🎖", Desc: "25 ta kitob o'qidingiz",
		Earned: func(s UserStats) bool { return s.Books >= 25 }},
	{Key: "bookworm_50", Name: "Kitob afsonasi", Icon: "👑", Desc: "50 ta kitob o'qidingiz",
		Earned: func(s UserStats) bool { return s.Books >= 50 }},
	{Key: "pages_500", Name: "500 sahifa", Icon: "📄", Desc: "Jami 500 sahifa o'qidingiz",
		Earned: func(s UserStats) bool { return s.Pages >= 500 }},
	{Key: "pages_1000", Name: "1000 sahifa", Icon: "📑", Desc: "Jami 1000 sahifa o'qidingiz",
		Earned: func(s UserStats) bool { return s.Pages >= 1000 }},
	{Key: "pages_5000", Name: "5000 sahifa", Icon: "📜", Desc: "Jami 5000 sahifa o'qidingiz",
		Earned: func(s UserStats) bool { return s.Pages >= 5000 }},
	{Key: "first_test", Name: "Birinchi test", Icon: "✏️", Desc: "Birinchi testni topshirdingiz",
		Earned: func(s UserStats) bool { return s.Attempts >= 1 }},
	{Key: "test_master", Name: "Test ustasi", Icon: "🎯", Desc: "10 ta test topshirdingiz",
		Earned: func(s UserStats) bool { return s.Attempts >= 10 }},
	{Key: "perfect_score", Name: "Mukammal natija", Icon: "💯", Desc: "Testni 100% natija bilan topshirdingiz",
		Earned: func(s UserStats) bool { return s.Perfect >= 1 }},
	{Key: "streak_3", Name: "3 kunlik seriya", Icon: "🔥", Desc: "3 kun ketma-ket faol bo'ldingiz",
		Earned: func(s UserStats) bool { return s.Streak >= 3 }},
	{Key: "streak_7", Name: "7 kunlik seriya", Icon: "⚡", Desc: "7 kun ketma-ket faol bo'ldingiz",
		Earned: func(s UserStats) bool { return s.Streak >= 7 }},
	{Key: "streak_30", Name: "30 kunlik seriya", Icon: "🌟", Desc: "30 kun ketma-ket faol bo'ldingiz",
		Earned: func(s UserStats) bool { return s.Streak >= 30 }},
	{Key: "approved_1", Name: "Tasdiqlangan xulosa", Icon: "✅", Desc: "Xulosangiz o'qituvchi tomonidan tasdiqlandi",
		Earned: func(s UserStats) bool { return s.Approved >= 1 }},
	{Key: "approved_10", Name: "Ishonchli muallif", Icon: "🖋", Desc: "10 ta xulosangiz tasdiqlandi",
		Earned: func(s UserStats) bool { return s.Approved >= 10 }},
}

// BadgeByKey looks a definition up by its key, nil when unknown.
func BadgeByKey(key string) *BadgeDef {
	for i := range Badges {
		if Badges[i].Key == key {
			return &Badges[i]
		}
	}
	return nil
}
