package nfts

type Config struct {
	// Parquet adds a columnar copy of the NFT set to each snapshot.
	Parquet bool `mapstructure:"parquet"`
}
