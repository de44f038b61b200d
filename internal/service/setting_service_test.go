package service

import (
	"errors"
	"testing"

	"github.com/cryptologowall/internal/repository"
)

func TestSettingDefaultsAndPrices(t *testing.T) {
	db := openServiceTestDB(t, "setting_service_test")
	svc := NewSettingService(repository.NewSettingRepository(db), newTestConfig(t))

	general, err := svc.GetGeneral()
	if err != nil {
		t.Fatalf("get general failed: %v", err)
	}
	if general.SiteName != "CryptoLogoWall" || general.LogoPrice != "1.00" {
		t.Fatalf("unexpected defaults: %+v", general)
	}
	price, err := svc.PriceFor(EntityReview)
	if err != nil || price.String() != "1.00" {
		t.Fatalf("unexpected review price: %s %v", price.String(), err)
	}

	general.ReviewPrice = "0.5"
	general.Tagline = "<script>x</script>Logos"
	saved, err := svc.UpdateGeneral(general)
	if err != nil {
		t.Fatalf("update general failed: %v", err)
	}
	if saved.ReviewPrice != "0.50" || saved.Tagline != "Logos" {
		t.Fatalf("unexpected normalized setting: %+v", saved)
	}
	price, err = svc.PriceFor(EntityReview)
	if err != nil || price.String() != "0.50" {
		t.Fatalf("updated price not visible: %s %v", price.String(), err)
	}
}

func TestSettingUpdateGeneralValidation(t *testing.T) {
	db := openServiceTestDB(t, "setting_validation_test")
	svc := NewSettingService(repository.NewSettingRepository(db), newTestConfig(t))
	base := svc.DefaultGeneralSetting()

	cases := []struct {
		name   string
		mutate func(*GeneralSetting)
		want   error
	}{
		{name: "site name", mutate: func(s *GeneralSetting) { s.SiteName = " " }, want: ErrSiteNameRequired},
		{name: "email", mutate: func(s *GeneralSetting) { s.AdminEmail = "nope" }, want: ErrAdminEmailInvalid},
		{name: "zero price", mutate: func(s *GeneralSetting) { s.LogoPrice = "0" }, want: ErrPriceInvalid},
		{name: "bad price", mutate: func(s *GeneralSetting) { s.ReviewPrice = "abc" }, want: ErrPriceInvalid},
		{name: "lang", mutate: func(s *GeneralSetting) { s.DefaultLang = "xx" }, want: ErrLangInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := base
			tc.mutate(&input)
			if _, err := svc.UpdateGeneral(input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
