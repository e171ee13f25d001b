package basket_test

import (
	"testing"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/basket"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	restaurantA, restaurantB := uuid.New(), uuid.New()
	pkg1, pkg2 := uuid.New(), uuid.New()

	testCases := []struct {
		desc   string
		basket basket.Basket
	}{
		{
			desc: "NewLicenseTwoRestaurants",
			basket: &basket.NewLicense{Items: []basket.RestaurantItem{
				{RestaurantID: restaurantA, LicensePackageIDs: []uuid.UUID{pkg1}},
				{RestaurantID: restaurantB, LicensePackageIDs: []uuid.UUID{pkg1, pkg2}},
			}},
		},
		{
			desc: "ExtendLicense",
			basket: &basket.ExtendLicense{
				RestaurantID:     restaurantA,
				LicenseID:        uuid.New(),
				LicensePackageID: pkg2,
			},
		},
		{
			desc:   "Link",
			basket: &basket.Link{Description: "Yearly menu license"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			data, err := basket.Encode(tc.basket)
			require.NoError(t, err)

			decoded, err := basket.Decode(data, tc.basket.Operation())
			require.NoError(t, err)
			require.Equal(t, tc.basket, decoded)
		})
	}
}

func TestNewLicense_Pairs(t *testing.T) {
	t.Parallel()

	r1, r2 := uuid.New(), uuid.New()
	p1, p2 := uuid.New(), uuid.New()
	b := &basket.NewLicense{Items: []basket.RestaurantItem{
		{RestaurantID: r1, LicensePackageIDs: []uuid.UUID{p1}},
		{RestaurantID: r2, LicensePackageIDs: []uuid.UUID{p1, p2}},
	}}

	require.Equal(t, [][2]uuid.UUID{{r1, p1}, {r2, p1}, {r2, p2}}, b.Pairs())
}

func TestDecode_FailsClosed(t *testing.T) {
	t.Parallel()

	extend, err := basket.Encode(&basket.ExtendLicense{
		RestaurantID:     uuid.New(),
		LicenseID:        uuid.New(),
		LicensePackageID: uuid.New(),
	})
	require.NoError(t, err)

	testCases := []struct {
		desc     string
		data     []byte
		expected entity.LicenseOperation
	}{
		{"ExtendStoredDecodedAsNew", extend, entity.OperationNewLicense},
		{"TagRewrittenShapeMismatch", []byte(`{"kind":"new_license","data":{"restaurantId":"` + uuid.NewString() + `"}}`), entity.OperationNewLicense},
		{"UnknownEnvelopeField", []byte(`{"kind":"link","data":{"description":"x"},"extra":1}`), entity.OperationLink},
		{"EmptyItems", []byte(`{"kind":"new_license","data":{"items":[]}}`), entity.OperationNewLicense},
		{"NilPackage", []byte(`{"kind":"extend_license","data":{"restaurantId":"` + uuid.NewString() + `","licenseId":"` + uuid.NewString() + `","licensePackageId":"00000000-0000-0000-0000-000000000000"}}`), entity.OperationExtendLicense},
		{"TrailingData", []byte(`{"kind":"link","data":{"description":"x"}}{}`), entity.OperationLink},
		{"Empty", nil, entity.OperationLink},
		{"UnknownOperation", []byte(`{"kind":"refund","data":{}}`), entity.LicenseOperation("refund")},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			b, err := basket.Decode(tc.data, tc.expected)
			require.ErrorIs(t, err, entity.ErrBasketMismatch)
			require.Nil(t, b)
		})
	}
}

func TestEncode_RejectsInvalid(t *testing.T) {
	t.Parallel()

	_, err := basket.Encode(&basket.NewLicense{})
	require.ErrorIs(t, err, entity.ErrInvalidData)

	_, err = basket.Encode(nil)
	require.ErrorIs(t, err, entity.ErrInvalidData)
}
