package commerce

const checkoutFields = `
fragment CheckoutFields on Checkout {
  id
  webUrl
  completedAt
  subtotalPriceV2 { amount currencyCode }
  totalTaxV2 { amount currencyCode }
  totalPriceV2 { amount currencyCode }
  lineItems(first: 250) {
    edges {
      node {
        id
        title
        quantity
        variant {
          id
          title
          availableForSale
          priceV2 { amount currencyCode }
          image { url altText }
        }
      }
    }
  }
}
`

const productFields = `
fragment ProductFields on Product {
  id
  handle
  title
  description
  descriptionHtml
  images(first: 10) { edges { node { url altText } } }
  variants(first: 100) {
    edges {
      node {
        id
        title
        availableForSale
        priceV2 { amount currencyCode }
        image { url altText }
      }
    }
  }
}
`

const productByHandleQuery = `
query ProductByHandle($handle: String!) {
  productByHandle(handle: $handle) { ...ProductFields }
}
` + productFields

const productsQuery = `
query Products($first: Int!) {
  products(first: $first) { edges { node { ...ProductFields } } }
}
` + productFields

const checkoutQuery = `
query Checkout($id: ID!) {
  node(id: $id) { ...CheckoutFields }
}
` + checkoutFields

const checkoutCreateMutation = `
mutation CheckoutCreate($input: CheckoutCreateInput!) {
  checkoutCreate(input: $input) {
    checkout { ...CheckoutFields }
    checkoutUserErrors { field message code }
  }
}
` + checkoutFields

const checkoutLineItemsReplaceMutation = `
mutation CheckoutLineItemsReplace($checkoutId: ID!, $lineItems: [CheckoutLineItemInput!]!) {
  checkoutLineItemsReplace(checkoutId: $checkoutId, lineItems: $lineItems) {
    checkout { ...CheckoutFields }
    userErrors { field message }
  }
}
` + checkoutFields
