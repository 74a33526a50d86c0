package trustlist

import (
	"context"

	"github.com/fox-one/mixin-sdk-go"
)

// BalanceSource is the balance-aggregation boundary. Implementations
// own their own retry and timeout behavior; the registry only consumes
// whatever batch the latest pull produced.
type BalanceSource interface {
	PullBalances(ctx context.Context, user *User) ([]*AssetAmount, error)
}

// MixinBalanceSource reads wallet balances with the user's own access
// token.
type MixinBalanceSource struct{}

func (MixinBalanceSource) PullBalances(ctx context.Context, user *User) ([]*AssetAmount, error) {
	client := mixin.NewFromAccessToken(user.Token)

	assets, err := client.ReadAssets(ctx)
	if err != nil {
		return nil, err
	}

	amounts := make([]*AssetAmount, 0, len(assets))
	for _, asset := range assets {
		amounts = append(amounts, &AssetAmount{
			Key:       NewAssetKey(asset.ChainID, asset.AssetID),
			Symbol:    asset.Symbol,
			Name:      asset.Name,
			Amount:    asset.Balance,
			FiatValue: asset.Balance.Mul(asset.PriceUSD),
		})
	}

	return amounts, nil
}
