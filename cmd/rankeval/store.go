package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/rankeval/blobstore"
	miniostore "github.com/hupe1980/rankeval/blobstore/minio"
	s3store "github.com/hupe1980/rankeval/blobstore/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// openStore returns the blob store the dataset and weights are read from.
func openStore(ctx context.Context, o *Options) (blobstore.BlobStore, error) {
	switch o.Store {
	case "local":
		return blobstore.NewLocalStore(o.Root), nil
	case "s3":
		var loadOpts []func(*awsconfig.LoadOptions) error
		if o.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(o.Region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := awss3.NewFromConfig(cfg, func(so *awss3.Options) {
			if o.Endpoint != "" {
				so.BaseEndpoint = aws.String(o.Endpoint)
				so.UsePathStyle = true
			}
		})
		return s3store.NewStore(client, o.Bucket, o.Root), nil
	case "minio":
		client, err := minio.New(o.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
			Secure: !o.Insecure,
			Region: o.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return miniostore.NewStore(client, o.Bucket, o.Root), nil
	default:
		return nil, fmt.Errorf("unknown store %q", o.Store)
	}
}
