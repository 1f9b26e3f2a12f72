package menu

func allSizes() []SizeOption {
	return []SizeOption{SizeTall, SizeGrande, SizeVenti}
}

func hotAndIce() []TemperatureOption {
	return []TemperatureOption{TemperatureHot, TemperatureIce}
}

func iceOnly() []TemperatureOption {
	return []TemperatureOption{TemperatureIce}
}

// defaultItems is the built-in café menu used when no catalog file is
// configured.
func defaultItems() []Item {
	return []Item{
		{
			Name: "아메리카노", Category: CategoryBeverage, BasePrice: 4500,
			Description: "진한 에스프레소에 물을 더한 클래식 커피", Available: true,
			Sizes: allSizes(), Temperatures: hotAndIce(),
			ExtraOptions: []string{"샷 추가", "시럽 추가"},
		},
		{
			Name: "카페라떼", Category: CategoryBeverage, BasePrice: 5000,
			Description: "부드러운 우유와 에스프레소의 조화", Available: true,
			Sizes: allSizes(), Temperatures: hotAndIce(),
			ExtraOptions: []string{"샷 추가", "시럽 추가", "휘핑 추가"},
		},
		{
			Name: "카푸치노", Category: CategoryBeverage, BasePrice: 5000,
			Description: "풍성한 우유 거품이 특징인 이탈리안 커피", Available: true,
			Sizes: allSizes(), Temperatures: hotAndIce(),
			ExtraOptions: []string{"샷 추가", "시나몬 파우더"},
		},
		{
			Name: "바닐라라떼", Category: CategoryBeverage, BasePrice: 5500,
			Description: "달콤한 바닐라 시럽이 들어간 라떼", Available: true,
			Sizes: allSizes(), Temperatures: hotAndIce(),
			ExtraOptions: []string{"샷 추가", "휘핑 추가"},
		},
		{
			Name: "카라멜마끼아또", Category: CategoryBeverage, BasePrice: 5800,
			Description: "달콤한 카라멜과 에스프레소의 만남", Available: true,
			Sizes: allSizes(), Temperatures: hotAndIce(),
			ExtraOptions: []string{"샷 추가", "휘핑 추가", "카라멜 드리즐 추가"},
		},
		{
			Name: "아이스티", Category: CategoryBeverage, BasePrice: 4000,
			Description: "상큼한 레몬 아이스티", Available: true,
			Sizes: allSizes(), Temperatures: iceOnly(),
			ExtraOptions: []string{"레몬 추가", "민트 추가"},
		},
		{
			Name: "오렌지주스", Category: CategoryBeverage, BasePrice: 5500,
			Description: "신선한 오렌지로 만든 착즙 주스", Available: true,
			Sizes: []SizeOption{SizeTall, SizeGrande}, Temperatures: iceOnly(),
		},
		{
			Name: "그린티라떼", Category: CategoryBeverage, BasePrice: 5500,
			Description: "고소한 녹차와 우유의 조화", Available: true,
			Sizes: allSizes(), Temperatures: hotAndIce(),
			ExtraOptions: []string{"휘핑 추가"},
		},

		{
			Name: "케이크", Category: CategoryDessert, BasePrice: 6000,
			Description: "촉촉한 초콜릿 케이크", Available: true,
			ExtraOptions: []string{"휘핑 추가"},
		},
		{
			Name: "치즈케이크", Category: CategoryDessert, BasePrice: 6500,
			Description: "부드러운 뉴욕 스타일 치즈케이크", Available: true,
		},
		{
			Name: "마카롱", Category: CategoryDessert, BasePrice: 3000,
			Description: "프랑스 전통 마카롱 (5개입)", Available: true,
		},
		{
			Name: "쿠키", Category: CategoryDessert, BasePrice: 2500,
			Description: "바삭한 초콜릿칩 쿠키", Available: true,
		},
		{
			Name: "와플", Category: CategoryDessert, BasePrice: 7000,
			Description: "벨기에 스타일 와플", Available: true,
			ExtraOptions: []string{"아이스크림 추가", "생크림 추가", "메이플시럽 추가"},
		},
		{
			Name: "타르트", Category: CategoryDessert, BasePrice: 6500,
			Description: "신선한 과일 타르트", Available: true,
		},
		{
			Name: "브라우니", Category: CategoryDessert, BasePrice: 4500,
			Description: "진한 초콜릿 브라우니", Available: true,
			ExtraOptions: []string{"아이스크림 추가"},
		},
		{
			Name: "스콘", Category: CategoryDessert, BasePrice: 3500,
			Description: "영국식 스콘 (잼&크림 포함)", Available: true,
		},

		{
			Name: "샌드위치", Category: CategoryMeal, BasePrice: 8000,
			Description: "신선한 야채와 햄이 들어간 클럽 샌드위치", Available: true,
			ExtraOptions: []string{"치즈 추가", "베이컨 추가"},
		},
		{
			Name: "베이글", Category: CategoryMeal, BasePrice: 7000,
			Description: "크림치즈를 곁들인 베이글", Available: true,
			ExtraOptions: []string{"연어 추가", "아보카도 추가"},
		},
		{
			Name: "샐러드", Category: CategoryMeal, BasePrice: 9000,
			Description: "신선한 채소와 닭가슴살 샐러드", Available: true,
			ExtraOptions: []string{"발사믹 드레싱", "요거트 드레싱"},
		},
		{
			Name: "파스타", Category: CategoryMeal, BasePrice: 12000,
			Description: "토마토 소스 파스타", Available: true,
			ExtraOptions: []string{"치즈 추가", "버섯 추가"},
		},
		{
			Name: "리조또", Category: CategoryMeal, BasePrice: 13000,
			Description: "크리미한 버섯 리조또", Available: true,
			ExtraOptions: []string{"치즈 추가", "트러플 오일"},
		},
		{
			Name: "피자", Category: CategoryMeal, BasePrice: 15000,
			Description: "마르게리타 피자 (1판)", Available: true,
			ExtraOptions: []string{"치즈 추가", "토핑 추가"},
		},
		{
			Name: "크로와상", Category: CategoryMeal, BasePrice: 4000,
			Description: "버터 크로와상", Available: true,
		},
		{
			Name: "프렌치토스트", Category: CategoryMeal, BasePrice: 8500,
			Description: "시나몬 프렌치토스트", Available: true,
			ExtraOptions: []string{"아이스크림 추가", "메이플시럽 추가"},
		},
	}
}
