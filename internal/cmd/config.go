package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"zonevault/internal/zonevault"
)

func defaultSnapshotBucket() string {
	bucket := getEnvWithDefault("MINIO_DNS_BUCKET", "")
	if bucket != "" {
		return bucket
	}
	return getEnvWithDefault("MINIO_BUCKET", "zone-backups")
}

func addMinioFlags(cmd *cobra.Command) {
	cmd.Flags().String("minio-endpoint", getEnvWithDefault("MINIO_ENDPOINT", ""), "Minio endpoint (env: MINIO_ENDPOINT)")
	cmd.Flags().String("minio-access-key", getEnvWithDefault("MINIO_ACCESS_KEY", ""), "Minio access key (env: MINIO_ACCESS_KEY)")
	cmd.Flags().String("minio-secret-key", getEnvWithDefault("MINIO_SECRET_KEY", ""), "Minio secret key (env: MINIO_SECRET_KEY)")
	cmd.Flags().String("minio-bucket", defaultSnapshotBucket(), "Minio bucket (env: MINIO_BUCKET, overrides with MINIO_DNS_BUCKET)")
	cmd.Flags().Bool("minio-ssl", getEnvBoolWithDefault("MINIO_SSL", true), "Use SSL for Minio (env: MINIO_SSL)")
	cmd.Flags().String("bucket-path", getEnvWithDefault("MINIO_BUCKET_PATH", ""), "Path prefix in bucket (env: MINIO_BUCKET_PATH)")
	cmd.Flags().Duration("minio-http-timeout", 0, "Minio HTTP timeout (env: MINIO_HTTP_TIMEOUT)")
}

func addAWSFlags(cmd *cobra.Command) {
	cmd.Flags().String("aws-access-key", getEnvWithDefault("AWS_ACCESS_KEY_ID", ""), "AWS access key (env: AWS_ACCESS_KEY_ID); empty uses the default credential chain")
	cmd.Flags().String("aws-secret-access-key", getEnvWithDefault("AWS_SECRET_ACCESS_KEY", ""), "AWS secret key (env: AWS_SECRET_ACCESS_KEY)")
	cmd.Flags().String("aws-region", getEnvWithDefault("AWS_REGION", "us-east-1"), "AWS region (env: AWS_REGION)")
	cmd.Flags().Duration("aws-http-timeout", 0, "AWS HTTP timeout (env: AWS_HTTP_TIMEOUT)")
}

func getMinioConfigFromFlags(cmd *cobra.Command) (*zonevault.MinioConfig, error) {
	endpoint := mustGetStringFlag(cmd, "minio-endpoint")
	if endpoint == "" {
		return nil, fmt.Errorf("minio-endpoint is required (use --minio-endpoint or set MINIO_ENDPOINT)")
	}

	accessKey := mustGetStringFlag(cmd, "minio-access-key")
	if accessKey == "" {
		return nil, fmt.Errorf("minio-access-key is required (use --minio-access-key or set MINIO_ACCESS_KEY)")
	}

	secretKey := mustGetStringFlag(cmd, "minio-secret-key")
	if secretKey == "" {
		return nil, fmt.Errorf("minio-secret-key is required (use --minio-secret-key or set MINIO_SECRET_KEY)")
	}

	return &zonevault.MinioConfig{
		Endpoint:         endpoint,
		AccessKey:        accessKey,
		SecretKey:        secretKey,
		Bucket:           mustGetStringFlag(cmd, "minio-bucket"),
		UseSSL:           mustGetBoolFlag(cmd, "minio-ssl"),
		BucketPath:       mustGetStringFlag(cmd, "bucket-path"),
		HTTPTimeout:      mustGetDurationFlag(cmd, "minio-http-timeout"),
		AutoCreateBucket: getEnvWithDefault("MINIO_DNS_BUCKET", "") != "",
	}, nil
}

func getAWSConfigFromFlags(cmd *cobra.Command) (*zonevault.AWSConfig, error) {
	accessKey := mustGetStringFlag(cmd, "aws-access-key")
	secretKey := mustGetStringFlag(cmd, "aws-secret-access-key")
	if accessKey != "" && secretKey == "" {
		return nil, fmt.Errorf("aws-secret-access-key is required when aws-access-key is set (use --aws-secret-access-key or set AWS_SECRET_ACCESS_KEY)")
	}

	return &zonevault.AWSConfig{
		AccessKey:   accessKey,
		SecretKey:   secretKey,
		Region:      mustGetStringFlag(cmd, "aws-region"),
		HTTPTimeout: mustGetDurationFlag(cmd, "aws-http-timeout"),
	}, nil
}

func newSnapshotStore(cmd *cobra.Command) (*zonevault.MinioStore, error) {
	minioConfig, err := getMinioConfigFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	store := zonevault.NewMinioStore(minioConfig)
	store.SetVerbosity(verbosity(cmd))
	return store, nil
}

func newDNSClient(cmd *cobra.Command) (*zonevault.Route53Client, error) {
	awsConfig, err := getAWSConfigFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	return zonevault.NewRoute53Client(awsConfig)
}
